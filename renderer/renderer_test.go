package renderer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wapl/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData(t *testing.T) CertificateData {
	t.Helper()
	qr, err := utils.GenerateQRCode("https://wapl.example.com/verify-certificate/CERT20250101120000ABC123")
	require.NoError(t, err)

	return CertificateData{
		StudentName:     "Jane Doe",
		WaplID:          "WAPL2025000042",
		DomainName:      "AI, DevOps",
		IssueDate:       "01 January 2025",
		ExpiryDate:      "01 January 2026",
		QRCodePNG:       qr,
		CertificateText: "This certificate recognizes the candidate's hands-on experience in AI, DevOps and successful assessment by WAPL.",
	}
}

func TestFallbackRenderer_ProducesPDF(t *testing.T) {
	pdf, err := (&FallbackRenderer{}).Render(sampleData(t))
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestFallbackRenderer_NoQRStillRenders(t *testing.T) {
	data := sampleData(t)
	data.QRCodePNG = nil

	pdf, err := (&FallbackRenderer{}).Render(data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestNew_SelectsByTemplatePresence(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.jpg")
	_, ok := New(missing, "fonts").(*FallbackRenderer)
	assert.True(t, ok, "missing template should select the fallback renderer")

	present := filepath.Join(t.TempDir(), "template.jpg")
	require.NoError(t, os.WriteFile(present, []byte("not-really-a-jpeg"), 0644))
	_, ok = New(present, "fonts").(*TemplateRenderer)
	assert.True(t, ok, "existing template should select the overlay renderer")
}

type slowRenderer struct {
	delay time.Duration
}

func (r *slowRenderer) Render(CertificateData) ([]byte, error) {
	time.Sleep(r.delay)
	return []byte("%PDF"), nil
}

func TestRenderWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := RenderWithTimeout(ctx, &slowRenderer{delay: 2 * time.Second}, CertificateData{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	pdf, err := RenderWithTimeout(context.Background(), &FallbackRenderer{}, sampleData(t))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestTemplateRenderer_FallsBackOnBadAsset(t *testing.T) {
	// The file exists but is not a decodable image, so overlay rendering
	// fails and the programmatic renderer must take over.
	bad := filepath.Join(t.TempDir(), "template.jpg")
	require.NoError(t, os.WriteFile(bad, []byte("not-really-a-jpeg"), 0644))

	r := New(bad, "fonts")
	pdf, err := r.Render(sampleData(t))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
