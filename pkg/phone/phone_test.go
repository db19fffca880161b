package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	assert.Equal(t, "11999998888", Digits("(11) 99999-8888"))
	assert.Equal(t, "5511999998888", Digits("+55 11 99999-8888"))
	assert.Equal(t, "", Digits("abc"))
}

func TestIsValidBrazilian(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{name: "landline 10 digits", phone: "(11) 3333-4444", want: true},
		{name: "mobile 11 digits", phone: "(11) 99999-8888", want: true},
		{name: "12 digits with country code", phone: "55 11 3333-4444", want: true},
		{name: "13 digits with country code", phone: "5511999998888", want: true},
		{name: "9 digits", phone: "999998888", want: false},
		{name: "14 digits", phone: "55119999988881", want: false},
		{name: "12 digits without country code", phone: "441133334444", want: false},
		{name: "13 digits without country code", phone: "4411999998888", want: false},
		{name: "empty", phone: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidBrazilian(tt.phone))
		})
	}
}
