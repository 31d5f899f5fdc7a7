package ocr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocument_CombinedTextSkipsFailedPages(t *testing.T) {
	doc := Document{Pages: []Page{
		{Index: 1, Text: "page one", Confidence: 0.8},
		{Index: 2, Err: "tesseract: boom"},
		{Index: 3, Text: "page three", Confidence: 0.6},
	}}

	require.Equal(t, "page one\n\npage three", doc.CombinedText())
	require.Equal(t, 2, doc.Succeeded())
	require.InDelta(t, 0.7, doc.AverageConfidence(), 1e-9)
}

func TestDocument_AllPagesFailed(t *testing.T) {
	doc := Document{Pages: []Page{
		{Index: 1, Err: "a"},
		{Index: 2, Err: "b"},
	}}

	require.Equal(t, "", doc.CombinedText())
	require.Equal(t, 0, doc.Succeeded())
	require.Zero(t, doc.AverageConfidence())
}

func TestDocument_Empty(t *testing.T) {
	doc := Document{}
	require.Equal(t, "", doc.CombinedText())
	require.Zero(t, doc.AverageConfidence())
}
