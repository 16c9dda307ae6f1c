package merge

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
)

// Reserved record fields consumed by the pipeline itself. They are always
// eligible mapping targets even when the template never references them.
const (
	FieldTo      = "email"
	FieldSubject = "subject"
	FieldCC      = "cc"
	FieldBCC     = "bcc"
)

// Envelope is the addressing block of a job, derived from the reserved
// fields of a mapped record. Multiple addresses in one field are
// space-separated.
type Envelope struct {
	To      []string `json:"to"`
	CC      []string `json:"cc,omitempty"`
	BCC     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
}

// ParseEnvelope builds and validates an Envelope from a mapped record.
// Returns an error wrapping ErrRecordInvalid when the recipient list is
// empty, any address fails RFC-shape validation, or the subject is missing.
func ParseEnvelope(record engine.Record) (*Envelope, error) {
	to, err := parseAddressList(record[FieldTo])
	if err != nil {
		return nil, fmt.Errorf("%w: %q field: %v", ErrRecordInvalid, FieldTo, err)
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: no recipient address", ErrRecordInvalid)
	}

	subject := strings.TrimSpace(record[FieldSubject])
	if subject == "" {
		return nil, fmt.Errorf("%w: no subject", ErrRecordInvalid)
	}

	cc, err := parseAddressList(record[FieldCC])
	if err != nil {
		return nil, fmt.Errorf("%w: %q field: %v", ErrRecordInvalid, FieldCC, err)
	}
	bcc, err := parseAddressList(record[FieldBCC])
	if err != nil {
		return nil, fmt.Errorf("%w: %q field: %v", ErrRecordInvalid, FieldBCC, err)
	}

	return &Envelope{To: to, CC: cc, BCC: bcc, Subject: subject}, nil
}

// parseAddressList validates a space-separated address list. An empty value
// yields an empty list, not an error; required-ness is the caller's call.
func parseAddressList(value string) ([]string, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(fields))
	for _, raw := range fields {
		addr, err := mail.ParseAddress(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q", raw)
		}
		out = append(out, addr.Address)
	}
	return out, nil
}
