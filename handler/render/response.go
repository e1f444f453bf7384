package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Response internal error msg as hint
var ResponseErrorMessageAsHint bool

func init() {
	v := os.Getenv("RESPONSE_ERROR_MESSAGE_AS_HINT")
	ResponseErrorMessageAsHint, _ = strconv.ParseBool(v)
}

type wrapResponse struct {
	status int
	header http.Header
	buf    *bytes.Buffer
}

func (w *wrapResponse) Header() http.Header {
	return w.header
}

func (w *wrapResponse) WriteHeader(statusCode int) {
	w.status = statusCode
}

func (w *wrapResponse) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *wrapResponse) isJsonContent() bool {
	typ := w.header.Get("Content-Type")
	return strings.HasPrefix(typ, "application/json")
}

type dataResponse struct {
	Data json.RawMessage `json:"data,omitempty"`
}

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Hint string `json:"hint,omitempty"`
}

// WrapResponse buffers the handler output and rewrites json bodies
// into the api envelope: success payloads land under "data", error
// bodies keep their {code,msg} shape. Non json responses pass through
// untouched.
func WrapResponse(hintEnabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			wrap := &wrapResponse{
				status: http.StatusOK,
				header: w.Header(),
				buf:    &bytes.Buffer{},
			}

			next.ServeHTTP(wrap, r)

			if !wrap.isJsonContent() {
				w.WriteHeader(wrap.status)
				if _, err := w.Write(wrap.buf.Bytes()); err != nil {
					logrus.WithError(err).Errorln("render: flush response")
				}

				return
			}

			if wrap.status/100 == 2 {
				writeResponse(w, wrap.status, dataResponse{Data: wrap.buf.Bytes()})
				return
			}

			var body errorResponse
			if err := json.Unmarshal(wrap.buf.Bytes(), &body); err != nil {
				body.Code = wrap.status
				body.Msg = http.StatusText(wrap.status)
			}

			if hintEnabled && ResponseErrorMessageAsHint && body.Hint == "" {
				body.Hint = body.Msg
				body.Msg = http.StatusText(wrap.status)
			}

			writeResponse(w, wrap.status, body)
		}

		return http.HandlerFunc(fn)
	}
}

func writeResponse(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render: write response")
	}
}
