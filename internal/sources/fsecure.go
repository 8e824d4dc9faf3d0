package sources

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/nvinuesa/fsk2pass/internal/model"
)

const (
	fsecureSourceName = "fsecure"
	fsecureDataField  = "data"
)

// ExportDocument is a parsed F-Secure KEY export:
//
//	{
//	  "data": {
//	    "<GUID>": { "service": ..., "username": ..., "password": ..., ... },
//	    ...
//	  }
//	}
//
// Accounts keep the order in which they appear in the file. Top-level fields
// other than data are checked for syntax and otherwise ignored.
type ExportDocument struct {
	// Path is the file the document was loaded from, if any.
	Path string

	accounts []model.Account
	hasData  bool
}

// Records returns the accounts of the data field in file order, dropping
// their identifiers. It returns ErrMissingField if the document has no data
// field.
func (d *ExportDocument) Records() ([]model.Account, error) {
	if !d.hasData {
		return nil, &ErrMissingField{Source: fsecureSourceName, Path: d.Path, Field: fsecureDataField}
	}

	accounts := make([]model.Account, len(d.accounts))
	copy(accounts, d.accounts)
	return accounts, nil
}

// Load reads and parses the export at path. The file is parsed exactly once.
func Load(path string) (*ExportDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ErrFileNotFound{Path: path}
		}
		return nil, &ErrPermissionDenied{Path: path, Op: "stat", Err: err}
	}

	if !info.Mode().IsRegular() {
		reason := "not a regular file"
		if info.IsDir() {
			reason = "is a directory"
		}
		return nil, &ErrFileNotFound{Path: path, Reason: reason}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ErrPermissionDenied{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		var malformed *ErrMalformedInput
		if errors.As(err, &malformed) {
			malformed.Path = path
		}
		return nil, err
	}

	doc.Path = path
	return doc, nil
}

// Decode parses an export from r. Duplicate identifiers keep the position of
// their first occurrence and the value of their last.
func Decode(r io.Reader) (*ExportDocument, error) {
	dec := json.NewDecoder(r)
	doc := &ExportDocument{}

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, malformed("empty input", nil)
		}
		return nil, malformed("", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, malformed("top-level value must be an object", nil)
	}

	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		if key == fsecureDataField {
			accounts, present, err := decodeData(dec)
			if err != nil {
				return nil, err
			}
			doc.accounts, doc.hasData = accounts, present
			continue
		}

		var skipped json.RawMessage
		if err := dec.Decode(&skipped); err != nil {
			return nil, malformed("field "+key, err)
		}
	}

	if err := readClose(dec); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, malformed("unexpected data after top-level object", nil)
		}
		return nil, malformed("", err)
	}

	return doc, nil
}

// decodeData decodes the value of the data field. A null value is reported
// as absent.
func decodeData(dec *json.Decoder) ([]model.Account, bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, false, malformed(fsecureDataField, err)
	}
	if tok == nil {
		return nil, false, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false, malformed("data must be an object", nil)
	}

	accounts := []model.Account{}
	index := make(map[string]int)
	for dec.More() {
		id, err := readKey(dec)
		if err != nil {
			return nil, false, err
		}

		var account model.Account
		if err := dec.Decode(&account); err != nil {
			return nil, false, malformed("entry "+id, err)
		}

		if i, ok := index[id]; ok {
			accounts[i] = account
			continue
		}
		index[id] = len(accounts)
		accounts = append(accounts, account)
	}

	if err := readClose(dec); err != nil {
		return nil, false, err
	}
	return accounts, true, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", malformed("", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", malformed("expected object key", nil)
	}
	return key, nil
}

func readClose(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return malformed("", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '}' {
		return malformed("expected end of object", nil)
	}
	return nil
}

func malformed(details string, err error) *ErrMalformedInput {
	e := &ErrMalformedInput{Source: fsecureSourceName, Details: details, Err: err}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		e.Offset = syntaxErr.Offset
	}
	return e
}

// FSecureSource implements the Source interface for F-Secure KEY exports.
type FSecureSource struct {
	filePath string
	isOpen   bool
	doc      *ExportDocument
}

// NewFSecureSource creates a new F-Secure KEY source adapter.
func NewFSecureSource() *FSecureSource {
	return &FSecureSource{}
}

// Name returns the unique identifier for this source.
func (s *FSecureSource) Name() string {
	return fsecureSourceName
}

// Description returns a human-readable description.
func (s *FSecureSource) Description() string {
	return "F-Secure KEY JSON export"
}

// SupportedExtensions returns file extensions this source handles.
func (s *FSecureSource) SupportedExtensions() []string {
	return []string{".fsk", ".json"}
}

// Open loads the export at path.
func (s *FSecureSource) Open(path string) error {
	if s.isOpen {
		return ErrAlreadyOpen
	}

	doc, err := Load(path)
	if err != nil {
		return err
	}

	s.filePath = path
	s.doc = doc
	s.isOpen = true
	return nil
}

// Read returns the accounts of the export in file order.
func (s *FSecureSource) Read() ([]model.Account, error) {
	if !s.isOpen {
		return nil, ErrNotOpen
	}
	return s.doc.Records()
}

// Close clears the accounts held by the source and drops the parsed export.
// Slices already returned by Read are not affected.
func (s *FSecureSource) Close() error {
	if s.doc != nil {
		clear(s.doc.accounts)
		s.doc.accounts = nil
	}
	s.doc = nil
	s.filePath = ""
	s.isOpen = false
	return nil
}
