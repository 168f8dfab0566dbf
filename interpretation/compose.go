// Package interpretation builds the prompts sent to the generation backend and
// slices the generated text back into analysis blocks.
//
// The prompt envelope and the segmenter share the section labels and the
// delimiter defined here; changing one without the other breaks parsing.
package interpretation

import (
	"fmt"
	"strings"

	"juspatria-backend/models"
)

// Section labels emitted by the instruction and matched by the segmenter.
const (
	ArticleLabel        = "ARTIGO EM QUESTÃO"
	InterpretationLabel = "INTERPRETAÇÃO"
	JurisprudenceLabel  = "JURISPRUDÊNCIA STF/STJ"

	// Delimiter separates analysed points; it must sit alone on its line.
	Delimiter = "---"
)

// NoPrecedentSentence is the answer the backend gives when no consolidated
// precedent exists. It is a legitimate result, not an error.
const NoPrecedentSentence = "Não há súmula vinculante ou tema repetitivo específico identificado para este ponto."

// Interpretation body directives, one per format.
const (
	ParagraphsDirective       = "(Texto corrido explicativo e didático)"
	BulletPointsDirective     = "(Use bullet points para listar os principais conceitos)"
	FAQDirective              = "(Formule como FAQ: P: Dúvida comum? R: Explicação)"
	ExecutiveSummaryDirective = "(Texto corrido, direto ao ponto, focado em tomada de decisão)"
)

// Audience directive blocks, one per audience.
const (
	ChildDirective = "DIRETRIZES PARA CRIANÇAS/SIMPLIFICADO:\n" +
		"- Use analogias simples. Explique o STF como \"O Tribunal dos Juízes Supremos\".\n"
	ProfessionalDirective = "DIRETRIZES PARA PROFISSIONAIS:\n" +
		"- Cite a jurisprudência com número do RE, REsp ou Súmula. Use terminologia técnica.\n"
	LaymanDirective = "DIRETRIZES PARA LEIGOS:\n" +
		"- Explique o impacto prático. Se houver decisão do STF/STJ, explique como isso muda a vida da pessoa.\n"
)

const roleStatement = "Você é o JusPátria, um assistente jurídico de elite especializado em legislação brasileira.\n" +
	"Sua missão é desmistificar leis com precisão técnica, citando fontes e jurisprudência, mantendo a sobriedade e clareza.\n\n"

const caseLawDirective = "Obrigatório verificar: Existe Súmula Vinculante, Súmula comum, Recursos Repetitivos (STJ) " +
	"ou Repercussão Geral (STF) sobre isso? Se sim, cite e explique. " +
	"Se não houver entendimento específico consolidado, informe:"

// ComposeInstruction builds the system instruction for cfg. Every combination
// of enum values, known or not, yields a complete instruction.
func ComposeInstruction(cfg models.InterpretationConfig) string {
	var b strings.Builder

	b.WriteString(roleStatement)

	b.WriteString("ESTRUTURA DE RESPOSTA OBRIGATÓRIA (Use Markdown):\n")
	b.WriteString("Para cada ponto analisado, siga estritamente este layout, com exatamente três seções nesta ordem:\n")
	fmt.Fprintf(&b, "> 🏛️ **%s:**\n", ArticleLabel)
	b.WriteString("> (Transcreva ou cite o artigo/inciso/lei analisado com precisão)\n\n")
	fmt.Fprintf(&b, "> 📘 **%s:**\n", InterpretationLabel)
	fmt.Fprintf(&b, "> (Sua explicação adaptada ao público: %s)\n", cfg.Audience.Label())
	fmt.Fprintf(&b, "> %s\n\n", FormatDirective(cfg.Format))
	fmt.Fprintf(&b, "> ⚖️ **%s:**\n", JurisprudenceLabel)
	fmt.Fprintf(&b, "> (%s \"%s\")\n\n", caseLawDirective, NoPrecedentSentence)
	b.WriteString("Separe cada ponto analisado do seguinte com uma linha contendo apenas:\n")
	b.WriteString(Delimiter + "\n\n")

	b.WriteString("PERFIL DE RESPOSTA:\n")
	fmt.Fprintf(&b, "- **Público Alvo:** %s.\n", cfg.Audience.Label())
	fmt.Fprintf(&b, "- **Tom de Voz:** %s.\n", cfg.Tone.Label())
	fmt.Fprintf(&b, "- **Nível de Detalhe:** %s.\n\n", cfg.Length.Label())

	b.WriteString(AudienceDirective(cfg.Audience))

	return b.String()
}

// FormatDirective returns the interpretation body directive for f.
// Paragraphs is also the fallback for unknown values.
func FormatDirective(f models.Format) string {
	switch f {
	case models.FormatBulletPoints:
		return BulletPointsDirective
	case models.FormatFAQ:
		return FAQDirective
	case models.FormatExecutiveSummary:
		return ExecutiveSummaryDirective
	case models.FormatParagraphs:
		return ParagraphsDirective
	default:
		return ParagraphsDirective
	}
}

// AudienceDirective returns the audience block for a.
// Layman is also the fallback for unknown values.
func AudienceDirective(a models.Audience) string {
	switch a {
	case models.AudienceChild:
		return ChildDirective
	case models.AudienceProfessional:
		return ProfessionalDirective
	case models.AudienceLayman:
		return LaymanDirective
	default:
		return LaymanDirective
	}
}

// ComposePromptFraming returns the instruction that precedes the document.
// It is the whole prompt when the document travels as an attachment.
func ComposePromptFraming(question string) string {
	var b strings.Builder
	question = strings.TrimSpace(question)
	if question != "" {
		fmt.Fprintf(&b, "PERGUNTA PRIORITÁRIA DO USUÁRIO: \"%s\"\n\n", question)
		b.WriteString("INSTRUÇÃO: Responda a pergunta acima usando o documento fornecido e seu conhecimento da lei brasileira. ")
		b.WriteString("Mantenha o formato Artigo -> Interpretação -> STF/STJ.\n\n")
		b.WriteString(strings.Repeat("-", 50) + "\n")
		b.WriteString("CONTEXTO / DOCUMENTO:\n")
		return b.String()
	}
	b.WriteString("INSTRUÇÃO: Analise o seguinte texto jurídico. Identifique os principais pontos legais e ")
	b.WriteString("explique-os no formato solicitado (Artigo/Interpretação/Jurisprudência).\n\n")
	b.WriteString("DOCUMENTO:\n")
	return b.String()
}

// ComposeUserPrompt returns the framing followed by the textual document.
func ComposeUserPrompt(content, question string) string {
	return ComposePromptFraming(question) + "\n" + content
}

// ComposeURLPrompt asks the backend to fetch url itself and analyse it.
func ComposeURLPrompt(url, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Acesse e analise o conteúdo legal na URL: %s.\n", url)
	question = strings.TrimSpace(question)
	if question != "" {
		fmt.Fprintf(&b, "Responda: \"%s\". Estruture: Artigo em Questão -> Interpretação -> Jurisprudência STF/STJ.", question)
	} else {
		b.WriteString("Faça a análise completa seguindo o formato: Artigo em Questão -> Interpretação -> Jurisprudência STF/STJ.")
	}
	return b.String()
}

// ComposeExamplePrompt asks for a fictional, everyday scenario illustrating
// the rule described by legalContext.
func ComposeExamplePrompt(legalContext string) string {
	var b strings.Builder
	b.WriteString("Com base no seguinte contexto jurídico brasileiro (Artigo e Interpretação):\n")
	fmt.Fprintf(&b, "\"%s\"\n\n", strings.TrimSpace(legalContext))
	b.WriteString("Crie um EXEMPLO PRÁTICO e FICTÍCIO do cotidiano para ilustrar essa regra.\n")
	b.WriteString("- Use nomes fictícios (ex: João, Maria, Empresa X).\n")
	b.WriteString("- Descreva a situação, o conflito e como a lei se aplica neste caso específico.\n")
	b.WriteString("- Seja didático, direto e claro.\n")
	b.WriteString("- Não use formatação complexa, apenas parágrafos.\n")
	return b.String()
}

// ExampleContext joins the parts of a block a practical example is built from.
func ExampleContext(block models.AnalysisBlock) string {
	return block.Article + "\n" + block.Interpretation
}
