package models

import (
	"fmt"
	"slices"
)

// Audience selects vocabulary and depth of the interpretation
type Audience string

const (
	AudienceChild        Audience = "child"
	AudienceLayman       Audience = "layman"
	AudienceProfessional Audience = "professional"
)

// Tone is a stylistic instruction only; it is never parsed back out
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneNeutral      Tone = "neutral"
	ToneEmpathetic   Tone = "empathetic"
	ToneAssertive    Tone = "assertive"
)

// Format changes the instruction given for the interpretation section body
type Format string

const (
	FormatParagraphs       Format = "paragraphs"
	FormatBulletPoints     Format = "bullet_points"
	FormatFAQ              Format = "faq"
	FormatExecutiveSummary Format = "executive_summary"
)

// Length is ordinal and only instructs verbosity
type Length string

const (
	LengthConcise  Length = "concise"
	LengthModerate Length = "moderate"
	LengthDetailed Length = "detailed"
)

// Audiences lists every audience value in declaration order
func Audiences() []Audience {
	return []Audience{AudienceChild, AudienceLayman, AudienceProfessional}
}

// Tones lists every tone value in declaration order
func Tones() []Tone {
	return []Tone{ToneProfessional, ToneNeutral, ToneEmpathetic, ToneAssertive}
}

// Formats lists every format value in declaration order
func Formats() []Format {
	return []Format{FormatParagraphs, FormatBulletPoints, FormatFAQ, FormatExecutiveSummary}
}

// Lengths lists every length value from shortest to longest
func Lengths() []Length {
	return []Length{LengthConcise, LengthModerate, LengthDetailed}
}

// Label returns the audience as it is shown to the model and the reader
func (a Audience) Label() string {
	switch a {
	case AudienceChild:
		return "Criança de 10 anos"
	case AudienceProfessional:
		return "Profissional da Área"
	case AudienceLayman:
		return "Leigo (Adulto)"
	default:
		return string(a)
	}
}

// Label returns the tone as it is shown to the model
func (t Tone) Label() string {
	switch t {
	case ToneProfessional:
		return "Profissional"
	case ToneNeutral:
		return "Neutro"
	case ToneEmpathetic:
		return "Empático"
	case ToneAssertive:
		return "Assertivo"
	default:
		return string(t)
	}
}

// Label returns the format as it is shown to the model
func (f Format) Label() string {
	switch f {
	case FormatParagraphs:
		return "Texto Corrido"
	case FormatBulletPoints:
		return "Tópicos"
	case FormatFAQ:
		return "Perguntas e Respostas"
	case FormatExecutiveSummary:
		return "Resumo Executivo"
	default:
		return string(f)
	}
}

// Label returns the length as it is shown to the model
func (l Length) Label() string {
	switch l {
	case LengthConcise:
		return "Conciso"
	case LengthModerate:
		return "Moderado"
	case LengthDetailed:
		return "Detalhado"
	default:
		return string(l)
	}
}

// InterpretationConfig holds the presentation preferences for one request
type InterpretationConfig struct {
	Audience Audience `json:"audience"`
	Tone     Tone     `json:"tone"`
	Format   Format   `json:"format"`
	Length   Length   `json:"length"`
}

// DefaultInterpretationConfig mirrors the preferences preselected in the web client
func DefaultInterpretationConfig() InterpretationConfig {
	return InterpretationConfig{
		Audience: AudienceLayman,
		Tone:     ToneNeutral,
		Format:   FormatParagraphs,
		Length:   LengthModerate,
	}
}

// WithDefaults fills empty fields from DefaultInterpretationConfig
func (c InterpretationConfig) WithDefaults() InterpretationConfig {
	d := DefaultInterpretationConfig()
	if c.Audience == "" {
		c.Audience = d.Audience
	}
	if c.Tone == "" {
		c.Tone = d.Tone
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.Length == "" {
		c.Length = d.Length
	}
	return c
}

// Validate reports the first field holding a value outside its enumeration
func (c InterpretationConfig) Validate() error {
	if !slices.Contains(Audiences(), c.Audience) {
		return fmt.Errorf("invalid audience %q", c.Audience)
	}
	if !slices.Contains(Tones(), c.Tone) {
		return fmt.Errorf("invalid tone %q", c.Tone)
	}
	if !slices.Contains(Formats(), c.Format) {
		return fmt.Errorf("invalid format %q", c.Format)
	}
	if !slices.Contains(Lengths(), c.Length) {
		return fmt.Errorf("invalid length %q", c.Length)
	}
	return nil
}

// InputMode identifies where the document under analysis comes from
type InputMode string

const (
	InputModeText InputMode = "text"
	InputModeFile InputMode = "file"
	InputModeURL  InputMode = "url"
)

// AnalysisBlock is one legal point extracted from a generated response
type AnalysisBlock struct {
	ID             string `json:"id"`
	Article        string `json:"article"`
	Interpretation string `json:"interpretation"`
	Jurisprudence  string `json:"jurisprudence"`
	Raw            string `json:"raw"`
}

// Degraded reports whether structured extraction failed and Raw must be shown instead
func (b AnalysisBlock) Degraded() bool {
	return b.Article == "" && b.Interpretation == ""
}
