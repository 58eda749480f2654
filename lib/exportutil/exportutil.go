package exportutil

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Dataset is a rectangular view over a slice of records, used for
// terminal tables and CSV/JSON exports. Headers come from the records'
// json tags so exported files line up with the server's API fields.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

func fieldHeader(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return formatValue(v.Elem())
	case reflect.Slice, reflect.Array:
		parts := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// FromRecords builds a dataset from a slice of structs.
func FromRecords[T any](records []T) Dataset {
	var zero T
	typ := reflect.TypeOf(zero)

	headers := make([]string, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		headers[i] = fieldHeader(typ.Field(i))
	}

	rows := make([][]string, len(records))
	for i, record := range records {
		value := reflect.ValueOf(record)
		row := make([]string, typ.NumField())
		for j := 0; j < typ.NumField(); j++ {
			row[j] = formatValue(value.Field(j))
		}
		rows[i] = row
	}

	return Dataset{Headers: headers, Rows: rows}
}

// Drop returns the dataset without the named columns.
func (d Dataset) Drop(columns ...string) Dataset {
	dropped := map[string]bool{}
	for _, c := range columns {
		dropped[c] = true
	}

	var keep []int
	var headers []string
	for i, h := range d.Headers {
		if dropped[h] {
			continue
		}
		keep = append(keep, i)
		headers = append(headers, h)
	}

	rows := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		out := make([]string, len(keep))
		for j, idx := range keep {
			out[j] = row[idx]
		}
		rows[i] = out
	}

	return Dataset{Headers: headers, Rows: rows}
}

func (d Dataset) WriteCSV(w io.Writer) error {
	out := csv.NewWriter(w)
	if err := out.Write(d.Headers); err != nil {
		return err
	}
	for _, row := range d.Rows {
		if err := out.Write(row); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func (d Dataset) WriteJSON(w io.Writer) error {
	records := make([]map[string]string, len(d.Rows))
	for i, row := range d.Rows {
		record := map[string]string{}
		for j, header := range d.Headers {
			record[header] = row[j]
		}
		records[i] = record
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// RenderTable writes the dataset as a rounded terminal table.
func (d Dataset) RenderTable(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(d.Headers))
	for i, h := range d.Headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range d.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
