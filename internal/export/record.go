package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/parselyze/parselyze-go/internal/domain"
)

// Record is one extracted document ready for tabular export.
type Record struct {
	Source    string
	JobID     string
	Status    string
	PageCount string
	Result    json.RawMessage
}

// RecordsFromParseResult returns one record per document of res. name labels
// a single-document result.
func RecordsFromParseResult(res domain.ParseResult, name string) []Record {
	pages := strconv.Itoa(res.Usage().PageCount)
	switch r := res.(type) {
	case *domain.SingleDocumentResult:
		return []Record{{Source: name, Status: string(domain.JobStatusCompleted), PageCount: pages, Result: r.Result}}
	case *domain.MultiDocumentResult:
		records := make([]Record, 0, len(r.Results))
		for _, doc := range r.Results {
			records = append(records, Record{Source: doc.Filename, Status: string(domain.JobStatusCompleted), PageCount: pages, Result: doc.Result})
		}
		return records
	default:
		return nil
	}
}

// RecordFromJob converts a polled job into a record. Failed jobs carry their
// error message in place of a result.
func RecordFromJob(job *domain.JobRecord) Record {
	rec := Record{
		Source: job.FileName,
		JobID:  job.JobID,
		Status: string(job.Status),
	}
	if job.PageCount != nil {
		rec.PageCount = strconv.Itoa(*job.PageCount)
	}
	if job.HasResult() {
		rec.Result = job.Result
	} else if job.Error != nil {
		rec.Result = mustErrorObject(*job.Error)
	}
	return rec
}

// RecordFromEvent converts a webhook event into a record.
func RecordFromEvent(evt *domain.WebhookEvent) Record {
	rec := Record{
		JobID:  evt.JobID,
		Status: string(evt.Status),
		Result: evt.Result,
	}
	if evt.PageCount != nil {
		rec.PageCount = strconv.Itoa(*evt.PageCount)
	}
	if domain.IsNullJSON(rec.Result) && evt.Error != "" {
		rec.Result = mustErrorObject(evt.Error)
	}
	return rec
}

func mustErrorObject(msg string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return b
}

// Flatten turns a JSON document into dotted key paths. Arrays use the element
// index as a path segment; scalars are rendered as their JSON text, strings
// unquoted, null as empty.
func Flatten(raw json.RawMessage) (map[string]string, error) {
	out := make(map[string]string)
	if domain.IsNullJSON(raw) {
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("flattening result: %w", err)
	}
	flattenValue("", v, out)
	return out, nil
}

func flattenValue(prefix string, v interface{}, out map[string]string) {
	switch t := v.(type) {
	case map[string]interface{}:
		if len(t) == 0 && prefix != "" {
			out[prefix] = ""
		}
		for k, child := range t {
			flattenValue(join(prefix, k), child, out)
		}
	case []interface{}:
		if len(t) == 0 && prefix != "" {
			out[prefix] = ""
		}
		for i, child := range t {
			flattenValue(join(prefix, strconv.Itoa(i)), child, out)
		}
	case string:
		out[keyOrValue(prefix)] = t
	case json.Number:
		out[keyOrValue(prefix)] = t.String()
	case bool:
		out[keyOrValue(prefix)] = strconv.FormatBool(t)
	case nil:
		out[keyOrValue(prefix)] = ""
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// keyOrValue names a top-level scalar result.
func keyOrValue(prefix string) string {
	if prefix == "" {
		return "value"
	}
	return prefix
}

var fixedColumns = []string{"Source", "Job ID", "Status", "Page Count"}

// Table lays records out as a header and rows. Result columns are the sorted
// union of every record's flattened keys.
func Table(records []Record) ([]string, [][]string, error) {
	flat := make([]map[string]string, len(records))
	keys := make(map[string]struct{})
	for i, rec := range records {
		f, err := Flatten(rec.Result)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d (%s): %w", i, rec.Source, err)
		}
		flat[i] = f
		for k := range f {
			keys[k] = struct{}{}
		}
	}

	resultCols := make([]string, 0, len(keys))
	for k := range keys {
		resultCols = append(resultCols, k)
	}
	sort.Strings(resultCols)

	header := append(append([]string{}, fixedColumns...), resultCols...)
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(header))
		row[0] = rec.Source
		row[1] = rec.JobID
		row[2] = rec.Status
		row[3] = rec.PageCount
		for j, col := range resultCols {
			row[len(fixedColumns)+j] = flat[i][col]
		}
		rows[i] = row
	}
	return header, rows, nil
}
