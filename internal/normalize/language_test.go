package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "english",
			text: "Experienced software engineer with a strong background in building distributed systems, " +
				"leading small teams and delivering reliable services to millions of customers every day.",
			want: "en",
		},
		{
			name: "french",
			text: "Ingénieur logiciel expérimenté, passionné par la conception de systèmes distribués et " +
				"la gestion d'équipes techniques dans des environnements exigeants.",
			want: "fr",
		},
		{name: "too short", text: "hello", want: UnknownLanguage},
		{name: "empty", text: "", want: UnknownLanguage},
		{name: "digits only", text: "1234567890 1234567890 1234567890", want: UnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text))
		})
	}
}
