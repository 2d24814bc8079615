package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindEmails(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two addresses in order",
			text: "Contact: a.b@x.com and c@y.org",
			want: []string{"a.b@x.com", "c@y.org"},
		},
		{
			name: "duplicates retained",
			text: "jane@doe.io, again jane@doe.io",
			want: []string{"jane@doe.io", "jane@doe.io"},
		},
		{
			name: "single letter tld rejected",
			text: "broken@host.c",
			want: []string{},
		},
		{
			name: "no addresses",
			text: "no contact details here",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindEmails(tt.text)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindURLs(t *testing.T) {
	text := "Portfolio https://jane.dev/work and repo http://github.com/jane?tab=repos\nplain www.example.com"
	assert.Equal(t, []string{"https://jane.dev/work", "http://github.com/jane?tab=repos"}, FindURLs(text))
	assert.Equal(t, []string{}, FindURLs("nothing to see"))
}

func TestFindURLContaining(t *testing.T) {
	text := "Links: https://www.LinkedIn.com/in/jane, https://github.com/jane."

	assert.Equal(t, "https://www.LinkedIn.com/in/jane", FindURLContaining(text, "linkedin.com"))
	assert.Equal(t, "https://github.com/jane", FindURLContaining(text, "github.com"))
	assert.Equal(t, "", FindURLContaining(text, "gitlab.com"))
}

func TestFindPhones(t *testing.T) {
	t.Run("international prefix", func(t *testing.T) {
		assert.Equal(t, []string{"+16502530000"}, FindPhones("Phone: +1 650-253-0000", "US"))
	})

	t.Run("national format uses default region", func(t *testing.T) {
		assert.Equal(t, []string{"+16502530000"}, FindPhones("Tel (650) 253-0000", ""))
	})

	t.Run("date ranges are not phones", func(t *testing.T) {
		assert.Empty(t, FindPhones("Acme Corp 2019 - 2021", "US"))
	})
}
