package transport

// ValidateRequest is the body of POST /phone-numbers/validate. Value may be
// any JSON value; non-strings fail with a type error.
type ValidateRequest struct {
	Value         any           `json:"value"`
	Countries     Countries     `json:"countries"`
	International International `json:"international"`
	SkipOnEmpty   bool          `json:"skipOnEmpty"`
}

// Spec returns the rule part of the request.
func (r ValidateRequest) Spec() RuleSpec {
	return RuleSpec{Countries: r.Countries, International: r.International}
}

// ValidateQuery is the query string of GET /phone-numbers/validate, apart
// from the value itself, which is read directly so a missing value stays nil.
type ValidateQuery struct {
	Countries     string `form:"countries" validate:"max=512"`
	International string `form:"international" validate:"max=16"`
	SkipOnEmpty   bool   `form:"skipOnEmpty"`
}

// Spec returns the rule part of the query.
func (q ValidateQuery) Spec() RuleSpec {
	return RuleSpec{
		Countries:     ParseCountriesParam(q.Countries),
		International: ParseInternationalParam(q.International),
	}
}

// FailureResponse is one failed check.
type FailureResponse struct {
	Scope    string            `json:"scope"`
	Message  string            `json:"message"`
	Template string            `json:"template"`
	Params   map[string]string `json:"params,omitempty"`
}

// ValidateResponse reports the outcome of one validation. Skipped is true
// when a pre-check decided not to validate the value.
type ValidateResponse struct {
	Valid   bool              `json:"valid"`
	Skipped bool              `json:"skipped"`
	Locale  string            `json:"locale"`
	Errors  []FailureResponse `json:"errors"`
}

// CheckRequest is the body of POST /phone-numbers/check. Phone is validated
// by the struct tag bound to the server's default rule.
type CheckRequest struct {
	Phone string `json:"phone" validate:"required,phonenumber"`
}

// CheckResponse lists the fields that failed, keyed by JSON name.
type CheckResponse struct {
	Valid  bool              `json:"valid"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RuleResponse describes the resolved default rule.
type RuleResponse struct {
	Options map[string]any `json:"options"`
}
