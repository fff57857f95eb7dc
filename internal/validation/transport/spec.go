package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"phonenumber_validator/internal/phonenumber"
)

// allCountriesToken selects every country of the registry.
const allCountriesToken = "all"

// Countries is the "countries" request field: true or "all" for every
// country, false to disable, a single id or a list of ids. Ids are
// upper-cased. A missing or null field leaves it unset.
type Countries struct {
	set  bool
	mode phonenumber.NationalMode
}

// NewCountries returns a set field holding mode.
func NewCountries(mode phonenumber.NationalMode) Countries {
	return Countries{set: true, mode: mode}
}

// IsSet reports whether the field was supplied.
func (c Countries) IsSet() bool { return c.set }

// Mode returns the resolved national mode. Unset fields are disabled.
func (c Countries) Mode() phonenumber.NationalMode { return c.mode }

func (c *Countries) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Countries{}
		return nil
	}

	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		if flag {
			*c = NewCountries(phonenumber.AllCountries())
		} else {
			*c = NewCountries(phonenumber.NoCountries())
		}
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if strings.EqualFold(strings.TrimSpace(single), allCountriesToken) {
			*c = NewCountries(phonenumber.AllCountries())
			return nil
		}
		*c = NewCountries(phonenumber.Countries(normalizeID(single)))
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		ids := make([]string, len(list))
		for i, id := range list {
			ids[i] = normalizeID(id)
		}
		*c = NewCountries(phonenumber.Countries(ids...))
		return nil
	}

	return fmt.Errorf("countries must be a boolean, a string or a list of strings")
}

func (c Countries) MarshalJSON() ([]byte, error) {
	switch {
	case !c.set:
		return []byte("null"), nil
	case !c.mode.Enabled():
		return []byte("false"), nil
	case c.mode.All():
		return []byte("true"), nil
	default:
		return json.Marshal(c.mode.IDs())
	}
}

// ParseCountriesParam decodes the query/environment form: "", "all", "true",
// "false" or a comma separated id list.
func ParseCountriesParam(raw string) Countries {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return Countries{}
	case allCountriesToken, "true":
		return NewCountries(phonenumber.AllCountries())
	case "false":
		return NewCountries(phonenumber.NoCountries())
	}

	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if id := normalizeID(part); id != "" {
			ids = append(ids, id)
		}
	}
	return NewCountries(phonenumber.Countries(ids...))
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// International is the "international" request field: false to disable, true
// for ITU, or a format token. Tokens are kept verbatim so an unknown one is
// reported when the rule is built. A missing or null field leaves it unset.
type International struct {
	set   bool
	token string
}

// NewInternational returns a set field. An empty token disables the check.
func NewInternational(token string) International {
	return International{set: true, token: token}
}

// IsSet reports whether the field was supplied.
func (i International) IsSet() bool { return i.set }

// Enabled reports whether a format was requested.
func (i International) Enabled() bool { return i.set && i.token != "" }

// Token returns the requested format token, "" when disabled.
func (i International) Token() string { return i.token }

func (i *International) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = International{}
		return nil
	}

	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		if flag {
			*i = NewInternational(phonenumber.FormatITU.String())
		} else {
			*i = NewInternational("")
		}
		return nil
	}

	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		*i = NewInternational(token)
		return nil
	}

	return fmt.Errorf("international must be a boolean or a string")
}

func (i International) MarshalJSON() ([]byte, error) {
	switch {
	case !i.set:
		return []byte("null"), nil
	case i.token == "":
		return []byte("false"), nil
	default:
		return json.Marshal(i.token)
	}
}

// ParseInternationalParam decodes the query/environment form: "", "false",
// "true" or a format token.
func ParseInternationalParam(raw string) International {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return International{}
	case "false":
		return NewInternational("")
	case "true":
		return NewInternational(phonenumber.FormatITU.String())
	}
	return NewInternational(raw)
}

// RuleSpec is a rule request before it is resolved against a registry.
type RuleSpec struct {
	Countries     Countries     `json:"countries"`
	International International `json:"international"`
}

// IsEmpty reports whether neither check was requested, in which case the
// server's default rule applies.
func (s RuleSpec) IsEmpty() bool {
	return !s.Countries.IsSet() && !s.International.IsSet()
}

// Key is a canonical form of the spec: equal keys build equal rules.
func (s RuleSpec) Key() string {
	var b strings.Builder
	mode := s.Countries.Mode()
	switch {
	case !mode.Enabled():
		b.WriteString("-")
	case mode.All():
		b.WriteString(allCountriesToken)
	default:
		b.WriteString(strings.Join(mode.IDs(), "\x1f"))
	}
	b.WriteString("|")
	if s.International.Enabled() {
		b.WriteString(strings.ToUpper(s.International.Token()))
	} else {
		b.WriteString("-")
	}
	return b.String()
}
