package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProber struct {
	sizes map[string]int64
	err   error
	calls []string
}

func (s *stubProber) ProbeSize(_ context.Context, url string) (int64, bool, error) {
	s.calls = append(s.calls, url)
	if s.err != nil {
		return 0, false, s.err
	}
	size, ok := s.sizes[url]
	return size, ok, nil
}

func TestAuditImagesBoundary(t *testing.T) {
	doc := mustDoc(t, `<body>
		<img src="https://cdn.example.com/at-limit.png" alt="At limit">
		<img src="https://cdn.example.com/below.png" alt="Below">
		<img src="https://cdn.example.com/unknown.png">
		<img src="http://cdn.example.com/plain.png" alt="Plain http">
		<img src="/relative.png" alt="Relative">
		<img alt="No src">
	</body>`)
	prober := &stubProber{sizes: map[string]int64{
		"https://cdn.example.com/at-limit.png": 61440,
		"https://cdn.example.com/below.png":    61439,
	}}

	records, err := AuditImages(context.Background(), doc, prober, DefaultTooBigBytes, nil)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"https://cdn.example.com/at-limit.png",
		"https://cdn.example.com/below.png",
		"https://cdn.example.com/unknown.png",
	}, prober.calls)

	assert.Equal(t, "At limit", records[0].AltText)
	assert.Equal(t, VerdictTooBig, records[0].Verdict)
	assert.Equal(t, "60.00 KB", records[0].SizeLabel())

	assert.Equal(t, VerdictOptimized, records[1].Verdict)

	assert.Equal(t, "", records[2].AltText)
	assert.Nil(t, records[2].SizeBytes)
	assert.Equal(t, VerdictUnknown, records[2].Verdict)
	assert.Equal(t, "Unknown", records[2].SizeLabel())
}

func TestAuditImagesProbeFailureAborts(t *testing.T) {
	doc := mustDoc(t, `<body><img src="https://cdn.example.com/a.png"></body>`)
	boom := errors.New("dial tcp: connection refused")

	records, err := AuditImages(context.Background(), doc, &stubProber{err: boom}, DefaultTooBigBytes, nil)

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, records)
}

func TestImageRecordSizeLabel(t *testing.T) {
	size := func(n int64) *int64 { return &n }
	tests := []struct {
		bytes *int64
		want  string
	}{
		{nil, "Unknown"},
		{size(0), "0.00 KB"},
		{size(1536), "1.50 KB"},
		{size(1024*1024 - 1), "1024.00 KB"},
		{size(1024 * 1024), "1.00 MB"},
		{size(5 * 1024 * 1024 / 2), "2.50 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ImageRecord{SizeBytes: tt.bytes}.SizeLabel())
	}
}

func TestClassifySizeIncludesMegabyteImages(t *testing.T) {
	assert.Equal(t, VerdictTooBig, classifySize(3*1024*1024, DefaultTooBigBytes))
	assert.Equal(t, VerdictOptimized, classifySize(0, DefaultTooBigBytes))
}
