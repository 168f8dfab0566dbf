package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"juspatria-backend/models"
	"juspatria-backend/service"

	"github.com/spf13/cobra"
)

var (
	inputFile string
	inputURL  string
	question  string
	profile   models.InterpretationConfig

	exampleArticle        string
	exampleInterpretation string
)

var interpretCmd = &cobra.Command{
	Use:   "interpret [text]",
	Short: "Interpret a legal text, file or URL",
	Long: `Interpret a legal text given as argument, read from stdin, loaded from a
file (--file, pdf/txt/md) or fetched by the model from a URL (--url).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildInterpretRequest(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Interpretations.Interpret(cmd.Context(), req)
		if err != nil {
			return describeError(err)
		}
		return printMarkdown(cmd.OutOrStdout(), blocksMarkdown(result.Blocks))
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Generate a practical example for an article and its interpretation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		text, err := a.Interpretations.GenerateExample(cmd.Context(), service.ExampleRequest{
			Article:        exampleArticle,
			Interpretation: exampleInterpretation,
		})
		if err != nil {
			return describeError(err)
		}
		return printMarkdown(cmd.OutOrStdout(), "### 💡 Exemplo prático\n\n"+text)
	},
}

func init() {
	f := interpretCmd.Flags()
	f.StringVarP(&inputFile, "file", "f", "", "pdf, txt or md file to analyse")
	f.StringVarP(&inputURL, "url", "u", "", "public URL the model should read")
	f.StringVarP(&question, "question", "q", "", "specific question about the text")

	d := models.DefaultInterpretationConfig()
	f.StringVar((*string)(&profile.Audience), "audience", string(d.Audience), "child, layman or professional")
	f.StringVar((*string)(&profile.Tone), "tone", string(d.Tone), "professional, neutral, empathetic or assertive")
	f.StringVar((*string)(&profile.Format), "format", string(d.Format), "paragraphs, bullet_points, faq or executive_summary")
	f.StringVar((*string)(&profile.Length), "length", string(d.Length), "concise, moderate or detailed")
	interpretCmd.MarkFlagsMutuallyExclusive("file", "url")

	exampleCmd.Flags().StringVar(&exampleArticle, "article", "", "article text")
	exampleCmd.Flags().StringVar(&exampleInterpretation, "interpretation", "", "interpretation text")
}

func buildInterpretRequest(stdin io.Reader, args []string) (service.InterpretRequest, error) {
	req := service.InterpretRequest{Question: question, Config: profile.WithDefaults()}

	switch {
	case inputURL != "":
		req.Mode = models.InputModeURL
		req.URL = inputURL
	case inputFile != "":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return req, fmt.Errorf("failed to read %s: %w", inputFile, err)
		}
		name := filepath.Base(inputFile)
		mimeType, err := service.ResolveMimeType(name, "")
		if err != nil {
			return req, fmt.Errorf("%s: %w", name, err)
		}
		req.Mode = models.InputModeFile
		req.Attachment = &models.Attachment{Name: name, MimeType: mimeType, Data: data}
	case len(args) == 1:
		req.Mode = models.InputModeText
		req.Text = args[0]
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return req, fmt.Errorf("failed to read stdin: %w", err)
		}
		req.Mode = models.InputModeText
		req.Text = string(data)
	}
	return req, nil
}

func describeError(err error) error {
	switch {
	case errors.Is(err, service.ErrBackendUnavailable), errors.Is(err, service.ErrUnusableResponse):
		log.Error("generation failed", "error", err)
		return errors.New("ocorreu um erro ao processar sua solicitação; verifique se o texto ou arquivo são válidos")
	case errors.Is(err, service.ErrBusy):
		return errors.New("uma geração já está em andamento")
	}
	return err
}

// blocksMarkdown lays the analysis out as one markdown document
func blocksMarkdown(blocks []models.AnalysisBlock) string {
	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		if block.Degraded() {
			b.WriteString(strings.TrimSpace(block.Raw))
			b.WriteString("\n")
			continue
		}
		writeSection(&b, "🏛️ Artigo em questão", block.Article)
		writeSection(&b, "📘 Interpretação", block.Interpretation)
		writeSection(&b, "⚖️ Jurisprudência STF/STJ", block.Jurisprudence)
	}
	return b.String()
}

func writeSection(b *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(b, "### %s\n\n%s\n\n", title, body)
}
