package services

import (
	"fmt"
	"html/template"
	"strings"
)

// buildNotificacaoEmail renders the subject and HTML body for a notification.
// Every body carries the researcher name, the project title and the days
// parameter of the rule that fired.
func buildNotificacaoEmail(n Notificacao) (assunto, corpo string) {
	switch n.Rotina {
	case RotinaPendentes:
		if n.PrazoEncerrado {
			assunto = "Prazo de correção encerrado"
			corpo = buildEmailHTML(assunto, n.NomePesquisador, []string{
				fmt.Sprintf("O prazo de %d dias para envio das correções do projeto \"%s\" se encerrou.",
					prazoCorrecaoDias, n.TituloProjeto),
				"Solicitamos a retirada do projeto ou contato com a secretaria do comitê.",
			})
			return
		}
		assunto = fmt.Sprintf("Pendência de correção: restam %d dias", n.DiasRestantes)
		corpo = buildEmailHTML(assunto, n.NomePesquisador, []string{
			fmt.Sprintf("O projeto \"%s\" possui pendências apontadas pelo comitê.", n.TituloProjeto),
			fmt.Sprintf("Restam %d dias do prazo de %d dias para envio das correções.",
				n.DiasRestantes, prazoCorrecaoDias),
		})
		return
	default:
		assunto = fmt.Sprintf("Entrega do relatório %s: prazo de %d dias", rotuloRelatorio(n.Tipo), n.DiasRestantes)
		corpo = buildEmailHTML(assunto, n.NomePesquisador, []string{
			fmt.Sprintf("O projeto \"%s\" completa %s.", n.TituloProjeto, marcoAprovacao(n.Tipo)),
			fmt.Sprintf("Solicitamos o envio do relatório %s em até %d dias.",
				rotuloRelatorio(n.Tipo), n.DiasRestantes),
		})
		return
	}
}

func rotuloRelatorio(tipo TipoRelatorio) string {
	switch tipo {
	case RelatorioParcial:
		return "parcial"
	case RelatorioFinal:
		return "final"
	default:
		return "parcial ou final"
	}
}

func marcoAprovacao(tipo TipoRelatorio) string {
	if tipo == RelatorioParcial {
		return "180 dias de aprovação"
	}
	return "365 dias de aprovação"
}

// buildEmailHTML assembles the shared notification layout. Every dynamic value
// is HTML-escaped.
func buildEmailHTML(titulo, nome string, paragrafos []string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;color:#333">`)
	b.WriteString(fmt.Sprintf(`<h2 style="color:#1a4d7c">%s</h2>`, template.HTMLEscapeString(titulo)))
	b.WriteString(fmt.Sprintf("<p>Prezado(a) %s,</p>", template.HTMLEscapeString(nome)))
	for _, p := range paragrafos {
		b.WriteString(fmt.Sprintf("<p>%s</p>", template.HTMLEscapeString(p)))
	}
	b.WriteString(`<p style="font-size:12px;color:#888">Comitê de Ética em Pesquisa. Mensagem automática, não responda este e-mail.</p>`)
	b.WriteString("</body></html>")
	return b.String()
}
