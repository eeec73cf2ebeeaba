// Package export converts task lists to and from a JSON document. The
// todo.txt line of each record is authoritative on import; the decoded
// fields are there for other consumers.
package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dori/tally/internal/model"
	"github.com/dori/tally/internal/todotxt"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Version of the document format
const Version = 1

const schemaURL = "https://github.com/dori/tally/export.schema.json"

//go:embed schema.json
var schemaJSON string

// Document is the exported form of a task list
type Document struct {
	Version  int       `json:"version"`
	Exported time.Time `json:"exported"`
	Tasks    []Record  `json:"tasks"`
}

// Record is one task
type Record struct {
	ID         int               `json:"id,omitempty"`
	Line       string            `json:"line"`
	Finished   bool              `json:"finished"`
	Priority   string            `json:"priority,omitempty"`
	Subject    string            `json:"subject"`
	Created    string            `json:"created,omitempty"`
	FinishedOn string            `json:"finished_on,omitempty"`
	Due        string            `json:"due,omitempty"`
	Threshold  string            `json:"threshold,omitempty"`
	Projects   []string          `json:"projects,omitempty"`
	Contexts   []string          `json:"contexts,omitempty"`
	Keywords   map[string]string `json:"keywords,omitempty"`
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Export converts the tasks of list in order
func Export(list *model.List) Document {
	tasks := list.Tasks()
	doc := Document{
		Version:  Version,
		Exported: time.Now().UTC().Truncate(time.Second),
		Tasks:    make([]Record, len(tasks)),
	}
	for i, t := range tasks {
		doc.Tasks[i] = recordOf(t)
	}
	return doc
}

func recordOf(t model.Task) Record {
	r := Record{
		ID:       t.ID,
		Line:     todotxt.Format(t),
		Finished: t.Finished,
		Subject:  t.Subject,
		Projects: t.Projects,
		Contexts: t.Contexts,
	}
	if t.Priority.IsSet() {
		r.Priority = t.Priority.String()
	}
	r.Created = formatDate(t.CreateDate)
	r.FinishedOn = formatDate(t.FinishDate)
	r.Due = formatDate(t.DueDate)
	r.Threshold = formatDate(t.ThresholdDate)
	if t.Keywords.Len() > 0 {
		r.Keywords = make(map[string]string, t.Keywords.Len())
		for _, name := range t.Keywords.Names() {
			r.Keywords[name], _ = t.Keywords.Get(name)
		}
	}
	return r
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return model.FormatDate(*d)
}

// Write encodes doc as indented JSON
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// Read validates a document against the export schema and parses the line
// of every record into a new list. Validation problems are returned as
// *ValidationError values joined into one error.
func Read(r io.Reader) (*model.List, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	if err := validate(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	list := model.NewList()
	var errs []error
	for i, rec := range doc.Tasks {
		task, err := todotxt.Parse(rec.Line)
		if err != nil {
			errs = append(errs, &ValidationError{
				Path: fmt.Sprintf("tasks[%d].line", i),
				Err:  err,
			})
			continue
		}
		list.Add(task)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return list, nil
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

func validate(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile export schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		var errs []error
		collectSchemaErrors(&errs, ve)
		return errors.Join(errs...)
	}
	return nil
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns /tasks/0/line into tasks[0].line
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var path strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&path, "[%d]", idx)
			continue
		}
		if path.Len() > 0 {
			path.WriteByte('.')
		}
		path.WriteString(part)
	}
	return path.String()
}
