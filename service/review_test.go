package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexassist/logic/ingestion/extract"
	"lexassist/logic/reference"
	"lexassist/logic/review"
	"lexassist/types"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(ctx context.Context, fileName, mimeType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	data, err := io.ReadAll(r)
	return string(data), err
}

func (f fakeExtractor) ExtractFile(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

type fakeLookup struct {
	err          error
	categories   []string
	jurisdiction string
}

func (f *fakeLookup) Lookup(ctx context.Context, categories []string, jurisdiction string, topK int) ([]types.Authority, error) {
	f.categories = categories
	f.jurisdiction = jurisdiction
	if f.err != nil {
		return nil, f.err
	}
	c, _ := reference.DefaultCatalog()
	return c.Lookup(ctx, categories, jurisdiction, topK)
}

func TestReviewUploadAttachesAuthorities(t *testing.T) {
	lookup := &fakeLookup{}
	svc := NewReviewService(fakeExtractor{}, lookup, 1)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	text := "Supplier shall provide an indemnification to Customer for third-party claims."
	report, err := svc.ReviewUpload(context.Background(), "msa.txt", "text/plain", "", strings.NewReader(text))
	require.NoError(t, err)

	assert.NotEmpty(t, report.ReviewID)
	assert.Equal(t, "msa.txt", report.FileName)
	assert.Equal(t, 30, report.Result.ComplianceScore)
	assert.Equal(t, []string{"governing_law", "liability_cap", "termination"}, lookup.categories)
	require.Len(t, report.Authorities, 3)
	assert.Equal(t, []string{
		"Restatement (Second) of Conflict of Laws § 187 (1971)",
		"U.C.C. § 2-719",
		"U.C.C. § 2-309",
	}, report.Citations)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), report.ReviewedAt)
}

func TestReviewTextPrefersJurisdiction(t *testing.T) {
	lookup := &fakeLookup{}
	svc := NewReviewService(fakeExtractor{}, lookup, 1)

	text := "Governing law: England. Either party may cancel on notice. Vendor shall indemnify Buyer."
	report, err := svc.ReviewText(context.Background(), "", " UK ", text)
	require.NoError(t, err)

	assert.Equal(t, "UK", lookup.jurisdiction)
	assert.Equal(t, "UK", report.Jurisdiction)
	assert.Equal(t, []string{"liability_cap"}, lookup.categories)
	require.Len(t, report.Authorities, 1)
	assert.Equal(t, "hadley-v-baxendale", report.Authorities[0].ID)
}

func TestReviewTextNoIssuesSkipsLookup(t *testing.T) {
	lookup := &fakeLookup{}
	svc := NewReviewService(fakeExtractor{}, lookup, 3)

	text := "Governing law: Ontario. Either party may cancel on notice. Force majeure excuses delay."
	report, err := svc.ReviewText(context.Background(), "", "", text)
	require.NoError(t, err)

	assert.Empty(t, report.Result.Issues)
	assert.Nil(t, lookup.categories)
	assert.Equal(t, []types.Authority{}, report.Authorities)
	assert.Equal(t, []string{}, report.Citations)
}

func TestReviewLookupFailureKeepsResult(t *testing.T) {
	svc := NewReviewService(fakeExtractor{}, &fakeLookup{err: errors.New("es down")}, 3)

	report, err := svc.ReviewText(context.Background(), "x.txt", "", "no standard clauses here")
	require.NoError(t, err)
	assert.Len(t, report.Result.Issues, 2)
	assert.Empty(t, report.Authorities)
}

func TestReviewEmptyDocument(t *testing.T) {
	svc := NewReviewService(fakeExtractor{}, nil, 3)

	_, err := svc.ReviewText(context.Background(), "x.txt", "", "   \n")
	assert.ErrorIs(t, err, review.ErrEmptyDocument)
}

func TestReviewExtractionError(t *testing.T) {
	extErr := &extract.ExtractionError{Kind: extract.UnsupportedType, FileName: "a.xls", Type: ".xls"}
	svc := NewReviewService(fakeExtractor{err: extErr}, nil, 3)

	_, err := svc.ReviewUpload(context.Background(), "a.xls", "", "", strings.NewReader("x"))
	ee, ok := extract.IsExtractionError(err)
	require.True(t, ok)
	assert.Equal(t, extract.UnsupportedType, ee.Kind)

	_, err = svc.ReviewFile(context.Background(), "/tmp/a.xls", "")
	assert.ErrorIs(t, err, extErr)
}

func TestReviewFile(t *testing.T) {
	svc := NewReviewService(fakeExtractor{text: "Jurisdiction: Texas. Termination on notice. Force Majeure."}, nil, 3)

	report, err := svc.ReviewFile(context.Background(), "/contracts/lease.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, "lease.pdf", report.FileName)
	assert.Empty(t, report.Result.Issues)
}
