package model

import (
	"strconv"

	"github.com/fatih/color"
)

// StatusClass is the HTTP outcome category of a page.
type StatusClass int

const (
	// StatusUnknown covers codes outside 100-599.
	StatusUnknown StatusClass = iota

	// StatusSuccess covers 1xx and 2xx responses.
	StatusSuccess

	// StatusRedirect covers 3xx responses.
	StatusRedirect

	// StatusClientError covers 4xx responses.
	StatusClientError

	// StatusServerError covers 5xx responses.
	StatusServerError
)

// ClassOf classifies an HTTP status code.
func ClassOf(code int) StatusClass {
	switch {
	case code >= 100 && code < 300:
		return StatusSuccess
	case code >= 300 && code < 400:
		return StatusRedirect
	case code >= 400 && code < 500:
		return StatusClientError
	case code >= 500 && code < 600:
		return StatusServerError
	default:
		return StatusUnknown
	}
}

// String returns a human-readable name of the class.
func (c StatusClass) String() string {
	switch c {
	case StatusSuccess:
		return "success"
	case StatusRedirect:
		return "redirect"
	case StatusClientError:
		return "client error"
	case StatusServerError:
		return "server error"
	default:
		return "unknown"
	}
}

// Terminal colors per class. fatih/color consults color.NoColor when
// printing, so these honor --no-color and non-terminal output.
var (
	redirectColor    = color.New(color.BgYellow, color.FgBlack)
	clientErrorColor = color.New(color.BgRed, color.FgWhite)
	serverErrorColor = color.New(color.BgBlack, color.FgRed)
	successColor     = color.New(color.BgGreen, color.FgBlack)
)

// Colorize renders s in the color of the class.
// Success and unknown codes share the same color.
func (c StatusClass) Colorize(s string) string {
	switch c {
	case StatusRedirect:
		return redirectColor.Sprint(s)
	case StatusClientError:
		return clientErrorColor.Sprint(s)
	case StatusServerError:
		return serverErrorColor.Sprint(s)
	default:
		return successColor.Sprint(s)
	}
}

// Log renders the page as a single line: the colored status code followed
// by the canonical URL.
func (p *Page) Log() string {
	return p.Class().Colorize(strconv.Itoa(p.StatusCode())) + " " + p.Key()
}
