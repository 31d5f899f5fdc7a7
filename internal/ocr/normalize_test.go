package ocr

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biasharafund/discounting/internal/common"
)

// pdftoppmStub acts like pdftoppm: it writes rendered page files under the
// output prefix it is handed.
type pdftoppmStub struct {
	pages int
	err   error
}

func (s *pdftoppmStub) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	if s.err != nil {
		return nil, []byte("Syntax Error"), s.err
	}
	prefix := args[len(args)-1]
	for i := 1; i <= s.pages; i++ {
		f, err := os.Create(prefix + "-" + string(rune('0'+i)) + ".png")
		if err != nil {
			return nil, nil, err
		}
		if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
			return nil, nil, err
		}
		if err := f.Close(); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestNormalizer_PDFPages(t *testing.T) {
	n := NewNormalizer(common.OCRConfig{}, &pdftoppmStub{pages: 3}, nil)

	pages, err := n.Pages(context.Background(), "invoice.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 3)
}

func TestNormalizer_PDFMaxPagesCap(t *testing.T) {
	n := NewNormalizer(common.OCRConfig{MaxPages: 2}, &pdftoppmStub{pages: 5}, nil)

	pages, err := n.Pages(context.Background(), "invoice.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 2)
}

func TestNormalizer_PDFRenderFailure(t *testing.T) {
	n := NewNormalizer(common.OCRConfig{}, &pdftoppmStub{err: errors.New("exit status 1")}, nil)

	_, err := n.Pages(context.Background(), "broken.pdf")
	require.Error(t, err)
	require.ErrorIs(t, err, common.ErrDecode)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "broken.pdf", de.Path)
}

func TestNormalizer_PDFNoPagesRendered(t *testing.T) {
	n := NewNormalizer(common.OCRConfig{}, &pdftoppmStub{pages: 0}, nil)

	_, err := n.Pages(context.Background(), "empty.pdf")
	require.ErrorIs(t, err, common.ErrDecode)
}

func TestNormalizer_SingleImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 8, 6))))
	require.NoError(t, f.Close())

	n := NewNormalizer(common.OCRConfig{}, &pdftoppmStub{}, nil)

	pages, err := n.Pages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Equal(t, 8, pages[0].Bounds().Dx())
}

func TestNormalizer_UndecodableImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	n := NewNormalizer(common.OCRConfig{}, &pdftoppmStub{}, nil)

	_, err := n.Pages(context.Background(), path)
	require.ErrorIs(t, err, common.ErrDecode)
}

func TestNormalizer_UnsupportedExtension(t *testing.T) {
	n := NewNormalizer(common.OCRConfig{}, &pdftoppmStub{}, nil)

	_, err := n.Pages(context.Background(), "notes.txt")
	require.ErrorIs(t, err, common.ErrDecode)
}
