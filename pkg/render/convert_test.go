package render

import (
	"context"
	"testing"

	"github.com/framewright/framewright/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`

func TestConvertRejects(t *testing.T) {
	tests := []struct {
		name   string
		svg    string
		format Format
		want   errors.Code
	}{
		{"svg target", tinySVG, "svg", errors.ErrCodeInvalidFormat},
		{"unknown target", tinySVG, "gif", errors.ErrCodeInvalidFormat},
		{"empty input", "  \n", PDF, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(context.Background(), []byte(tt.svg), tt.format, 1)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Convert() code = %s, want %s (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestConvertMissingConverter(t *testing.T) {
	prev := Converter
	Converter = "framewright-missing-converter"
	t.Cleanup(func() { Converter = prev })

	for _, format := range []Format{PDF, PNG} {
		_, err := Convert(context.Background(), []byte(tinySVG), format, 2)
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("Convert(%s) = %v, want UNSUPPORTED", format, err)
		}
	}
}
