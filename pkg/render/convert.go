package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/framewright/framewright/pkg/errors"
)

// Format is a target format for SVG conversion.
type Format string

const (
	PDF Format = "pdf"
	PNG Format = "png"
)

// Converter is the librsvg command used by [Convert].
var Converter = "rsvg-convert"

// Convert turns svg into format by piping it through [Converter]. scale
// only applies to PNG; values <= 0 mean 1. A missing converter yields an
// [errors.ErrCodeUnsupported] error naming the package to install.
func Convert(ctx context.Context, svg []byte, format Format, scale float64) ([]byte, error) {
	args := []string{"-f", string(format)}
	switch format {
	case PDF:
	case PNG:
		if scale <= 0 {
			scale = 1
		}
		args = append(args, "-z", strconv.FormatFloat(scale, 'f', 2, 64))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot convert SVG to %q", format)
	}
	if len(bytes.TrimSpace(svg)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty SVG")
	}

	bin, err := exec.LookPath(Converter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err,
			"%s export needs %s (brew install librsvg, apt install librsvg2-bin)", format, Converter)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", Converter, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
