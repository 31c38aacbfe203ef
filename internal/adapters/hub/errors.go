package hub

import (
	"strings"

	perr "qabundle/internal/platform/errors"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// check maps a transport error or a non-2xx status to a coded error
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "hub %s", op)
	}
	sc := resp.StatusCode()
	if sc >= 200 && sc < 300 {
		return nil
	}

	var code perr.ErrorCode
	switch {
	case sc == 401 || sc == 403:
		code = perr.ErrorCodeUnauthorized
	case sc == 404:
		code = perr.ErrorCodeNotFound
	case sc == 409:
		code = perr.ErrorCodeConflict
	case sc == 429 || sc >= 500:
		code = perr.ErrorCodeUnavailable
	default:
		code = perr.ErrorCodeRemote
	}
	return perr.Newf(code, "hub %s: %d %s", op, sc, remoteMessage(resp.Body()))
}

// remoteMessage prefers the hub's {"error": "..."} field, else a trimmed body
func remoteMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "error"); m.Exists() {
			return m.String()
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
