// Package export renders a TOS and its quiz items into a Word document laid
// out the way DepEd assessment packets are: cover page, specifications
// table, quiz, then answer key and rubrics.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/bayanihan-edu/tosforge/internal/quiz"
	"github.com/bayanihan-edu/tosforge/internal/tos"
)

// Metadata is the cover-page information supplied by the teacher.
type Metadata struct {
	School  string `json:"school"`
	Teacher string `json:"teacher"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Grade   int    `json:"grade"`
	Quarter int    `json:"quarter"`
}

// ExportError wraps a failure while building or writing the document. It is
// fatal for the request that triggered it and nothing else.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string { return fmt.Sprintf("export: %v", e.Err) }

func (e *ExportError) Unwrap() error { return e.Err }

const footerLine = "Aligned with the Most Essential Learning Competencies (MELCs) - DepEd Order No. 012, s. 2023"

var tosHeaders = []string{"Item No.", "Cognitive Level", "Competency (MELC)", "Item Type", "Point Value", "Remarks"}

// Write builds the document and writes it to w.
func Write(w io.Writer, meta Metadata, items []tos.Item, drafts []quiz.Draft) error {
	if len(items) != len(drafts) {
		return &ExportError{Err: fmt.Errorf("%d items but %d drafts", len(items), len(drafts))}
	}
	doc := build(meta, items, drafts)
	if _, err := doc.WriteTo(w); err != nil {
		return &ExportError{Err: err}
	}
	return nil
}

// Filename derives the download name, e.g. TOS_Quiz_Grade8_Science_Q3.docx.
func Filename(meta Metadata) string {
	subject := strings.ReplaceAll(strings.TrimSpace(meta.Subject), " ", "_")
	return fmt.Sprintf("TOS_Quiz_Grade%d_%s_Q%d.docx", meta.Grade, subject, meta.Quarter)
}

func build(meta Metadata, items []tos.Item, drafts []quiz.Draft) *docx.Docx {
	doc := docx.New().WithDefaultTheme()

	// Cover page.
	heading(doc, "DEPARTMENT OF EDUCATION", "32")
	heading(doc, "TABLE OF SPECIFICATIONS & ASSESSMENT TOOL", "32")
	doc.AddParagraph()
	cover := doc.AddParagraph().Justification("center")
	cover.AddText("School: " + meta.School).Bold()
	coverLine(doc, "Grade Level: Grade "+strconv.Itoa(meta.Grade))
	coverLine(doc, "Subject: "+meta.Subject)
	coverLine(doc, fmt.Sprintf("Quarter: Q%d", meta.Quarter))
	coverLine(doc, "Prepared by: "+meta.Teacher)
	coverLine(doc, "Date: "+meta.Date)
	doc.AddParagraph().AddPageBreaks()

	// TOS table.
	heading(doc, "I. TABLE OF SPECIFICATIONS", "28")
	table := doc.AddTable(len(items)+1, len(tosHeaders), 9000, nil)
	for i, h := range tosHeaders {
		table.TableRows[0].TableCells[i].AddParagraph().AddText(h).Bold()
	}
	for i, it := range items {
		cells := table.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(strconv.Itoa(it.Number))
		cells[1].AddParagraph().AddText(it.Level.String())
		cells[2].AddParagraph().AddText(it.Competency.Code + ": " + it.Competency.Description)
		cells[3].AddParagraph().AddText(it.Type.Label())
		cells[4].AddParagraph().AddText(strconv.Itoa(it.Points))
		cells[5].AddParagraph().AddText("")
	}
	doc.AddParagraph()

	// Quiz.
	heading(doc, "II. QUIZ / EXAMINATION", "28")
	doc.AddParagraph().AddText(fmt.Sprintf(
		"General Instructions: Answer the following. Total Points: %d", tos.TotalPoints(items))).Italic()
	for _, d := range drafts {
		p := doc.AddParagraph()
		p.AddText(strconv.Itoa(d.Number) + ". ").Bold()
		p.AddText(d.Prompt)
		for _, choice := range d.Choices {
			doc.AddParagraph().AddText("    " + choice)
		}
	}

	// Answer key.
	doc.AddParagraph().AddPageBreaks()
	heading(doc, "III. ANSWER KEY & RUBRICS", "28")
	for _, d := range drafts {
		p := doc.AddParagraph()
		p.AddText(strconv.Itoa(d.Number) + ". ").Bold()
		p.AddText(d.Answer)
	}

	doc.AddParagraph()
	doc.AddParagraph().Justification("center").AddText(footerLine).Size("18")
	return doc
}

func heading(doc *docx.Docx, text, size string) {
	doc.AddParagraph().Justification("center").AddText(text).Bold().Size(size)
}

func coverLine(doc *docx.Docx, text string) {
	doc.AddParagraph().Justification("center").AddText(text)
}
