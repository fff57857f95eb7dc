package phonenumber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonenumber_validator/platform/apperr"
)

func TestNewRuleConfigErrors(t *testing.T) {
	registry := gbUSRegistry()

	cases := []struct {
		name    string
		opts    []RuleOption
		message string
	}{
		{
			name:    "neither countries nor international",
			opts:    nil,
			message: noChecksEnabledMessage,
		},
		{
			name:    "explicitly disabled",
			opts:    []RuleOption{WithNational(NoCountries()), WithInternationalFormat(FormatNone)},
			message: noChecksEnabledMessage,
		},
		{
			name:    "countries without registry",
			opts:    []RuleOption{WithAllCountries()},
			message: registryRequiredMessage,
		},
		{
			name:    "registry without countries",
			opts:    []RuleOption{WithRegistry(registry), WithInternational("EPP")},
			message: registryUnusedMessage,
		},
		{
			name:    "bad international format",
			opts:    []RuleOption{WithInternational("E164")},
			message: InvalidInternationalFormatMessage,
		},
		{
			name:    "custom international format message",
			opts:    []RuleOption{WithInternational("x"), WithInvalidInternationalFormatMessage("use EPP or ITU")},
			message: "use EPP or ITU",
		},
		{
			name:    "invalid country in list",
			opts:    []RuleOption{WithRegistry(registry), WithCountries("GB", "US", "ZZ")},
			message: `"ZZ" is not a valid country`,
		},
		{
			name:    "invalid single country",
			opts:    []RuleOption{WithRegistry(registry), WithCountries("ZZ")},
			message: `"ZZ" is not a valid country`,
		},
		{
			name:    "empty country list",
			opts:    []RuleOption{WithRegistry(registry), WithCountries()},
			message: emptyCountrySelectMessage,
		},
		{
			name:    "all countries of an empty registry",
			opts:    []RuleOption{WithRegistry(newMemoryRegistry()), WithAllCountries()},
			message: emptyCountrySelectMessage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := NewRule(tc.opts...)
			require.Error(t, err)
			assert.Nil(t, rule)
			assert.True(t, apperr.Is(err, apperr.KindConfig))

			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestNewRuleSingleCountryBecomesSet(t *testing.T) {
	rule, err := NewRule(WithRegistry(gbUSRegistry()), WithCountries("GB"))
	require.NoError(t, err)

	assert.Equal(t, []string{"GB"}, rule.Countries())
	assert.True(t, rule.NationalEnabled())
	assert.False(t, rule.InternationalEnabled())
	assert.Equal(t, FormatNone, rule.InternationalFormat())
}

func TestNewRuleDeduplicatesInOrder(t *testing.T) {
	rule, err := NewRule(WithRegistry(gbUSRegistry()), WithCountries("US", "GB", "US"))
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "GB"}, rule.Countries())
}

func TestNewRuleAllCountriesIsSnapshot(t *testing.T) {
	registry := gbUSRegistry()
	rule, err := NewRule(WithRegistry(registry), WithAllCountries())
	require.NoError(t, err)

	registry.add("FR", `^0\d{9}$`)

	assert.Equal(t, []string{"GB", "US"}, rule.Countries())
	assert.True(t, rule.National().All())
	assert.Same(t, registry, rule.Registry())
}

func TestNewRuleInternationalTokenIsCaseInsensitive(t *testing.T) {
	for token, want := range map[string]InternationalFormat{"epp": FormatEPP, "iTu": FormatITU} {
		rule, err := NewRule(WithInternational(token))
		require.NoError(t, err, token)
		assert.Equal(t, want, rule.InternationalFormat())
	}
}

func TestNewRuleCountriesCopiesAreIndependent(t *testing.T) {
	ids := []string{"GB"}
	rule, err := NewRule(WithRegistry(gbUSRegistry()), WithCountries(ids...))
	require.NoError(t, err)

	ids[0] = "US"
	got := rule.Countries()
	got[0] = "FR"

	assert.Equal(t, []string{"GB"}, rule.Countries())
}

func TestRuleMessagesDefaultsAndOverrides(t *testing.T) {
	rule, err := NewRule(WithInternationalFormat(FormatITU))
	require.NoError(t, err)

	assert.Equal(t, RuleName, rule.Name())
	assert.Equal(t, IncorrectInputMessage, rule.IncorrectInputMessage())
	assert.Equal(t, InvalidInternationalFormatMessage, rule.InvalidInternationalFormatMessage())
	assert.Equal(t, InvalidInternationalMessage, rule.InvalidInternationalMessage())
	assert.Equal(t, InvalidNationalMessage, rule.InvalidNationalMessage())

	custom, err := NewRule(
		WithInternationalFormat(FormatITU),
		WithIncorrectInputMessage("type {type}"),
		WithInvalidInternationalMessage("intl {value}"),
		WithInvalidNationalMessage("n6l {value}"),
	)
	require.NoError(t, err)
	assert.Equal(t, "type {type}", custom.IncorrectInputMessage())
	assert.Equal(t, "intl {value}", custom.InvalidInternationalMessage())
	assert.Equal(t, "n6l {value}", custom.InvalidNationalMessage())
}

func TestRuleOptions(t *testing.T) {
	rule, err := NewRule(WithInternational("EPP"))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"countries":     false,
		"international": "EPP",
		"incorrectInputMessage": map[string]string{
			"message": IncorrectInputMessage,
		},
		"invalidInternationalFormatMessage": map[string]string{
			"message": InvalidInternationalFormatMessage,
		},
		"invalidInternationalMessage": map[string]string{
			"message": InvalidInternationalMessage,
		},
		"invalidNationalMessage": map[string]string{
			"message": InvalidNationalMessage,
		},
		"registry": false,
	}, rule.Options())

	national, err := NewRule(WithRegistry(gbUSRegistry()), WithCountries("US"))
	require.NoError(t, err)
	opts := national.Options()
	assert.Equal(t, []string{"US"}, opts["countries"])
	assert.Equal(t, false, opts["international"])
	assert.Equal(t, true, opts["registry"])
}
