package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parselyze/parselyze-go/internal/domain"
)

func TestFlatten(t *testing.T) {
	raw := json.RawMessage(`{
		"invoice":{"number":"INV-001","total":1234.50,"paid":false},
		"items":[{"sku":"A"},{"sku":"B"}],
		"notes":null,
		"tags":[]
	}`)

	got, err := Flatten(raw)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"invoice.number": "INV-001",
		"invoice.total":  "1234.50",
		"invoice.paid":   "false",
		"items.0.sku":    "A",
		"items.1.sku":    "B",
		"notes":          "",
		"tags":           "",
	}, got)
}

func TestFlatten_ScalarAndNull(t *testing.T) {
	got, err := Flatten(json.RawMessage(`"plain text"`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"value": "plain text"}, got)

	got, err = Flatten(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Flatten(json.RawMessage(`{bad`))
	assert.Error(t, err)
}

func TestRecordsFromParseResult(t *testing.T) {
	single := &domain.SingleDocumentResult{
		Result:    json.RawMessage(`{"a":1}`),
		PageUsage: domain.PageUsage{PageCount: 2},
	}
	recs := RecordsFromParseResult(single, "invoice.pdf")
	require.Len(t, recs, 1)
	assert.Equal(t, "invoice.pdf", recs[0].Source)
	assert.Equal(t, "2", recs[0].PageCount)
	assert.Equal(t, "completed", recs[0].Status)

	multi := &domain.MultiDocumentResult{
		Results: []domain.DocumentResult{
			{Filename: "a.pdf", Result: json.RawMessage(`{}`)},
			{Filename: "b.pdf", Result: json.RawMessage(`{}`)},
		},
		PageUsage: domain.PageUsage{PageCount: 5},
	}
	recs = RecordsFromParseResult(multi, "ignored")
	require.Len(t, recs, 2)
	assert.Equal(t, "a.pdf", recs[0].Source)
	assert.Equal(t, "b.pdf", recs[1].Source)
}

func TestRecordFromJob_Failed(t *testing.T) {
	msg := "unreadable scan"
	rec := RecordFromJob(&domain.JobRecord{
		JobID:    "job_1",
		Status:   domain.JobStatusFailed,
		FileName: "scan.png",
		Error:    &msg,
	})

	assert.Equal(t, "job_1", rec.JobID)
	assert.Equal(t, "failed", rec.Status)
	assert.Equal(t, "", rec.PageCount)
	assert.JSONEq(t, `{"error":"unreadable scan"}`, string(rec.Result))
}

func TestRecordFromEvent(t *testing.T) {
	pages := 4
	rec := RecordFromEvent(&domain.WebhookEvent{
		JobID:     "job_2",
		Status:    domain.JobStatusCompleted,
		Result:    json.RawMessage(`{"x":"y"}`),
		PageCount: &pages,
	})
	assert.Equal(t, "4", rec.PageCount)
	assert.JSONEq(t, `{"x":"y"}`, string(rec.Result))
}

func TestTable_UnionOfColumns(t *testing.T) {
	header, rows, err := Table([]Record{
		{Source: "a.pdf", Result: json.RawMessage(`{"total":"10","seller":"Acme"}`)},
		{Source: "b.pdf", Result: json.RawMessage(`{"total":"20","buyer":"Globex"}`)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Source", "Job ID", "Status", "Page Count", "buyer", "seller", "total"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a.pdf", "", "", "", "", "Acme", "10"}, rows[0])
	assert.Equal(t, []string{"b.pdf", "", "", "", "Globex", "", "20"}, rows[1])
}
