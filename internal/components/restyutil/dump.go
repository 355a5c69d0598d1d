// Package restyutil dumps the http exchanges of a resty client for debugging.
package restyutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

type dumpCtxKeyType int

var dumpCtxKey dumpCtxKeyType

type dumper struct {
	output    Output
	idcounter *uint64
}

// Dump writes every request made with client together with its response (or
// error) to output. Passwords in json bodies are masked.
func Dump(client *resty.Client, output Output) {
	var idcounter uint64
	d := dumper{output: output, idcounter: &idcounter}

	client.OnBeforeRequest(d.onBeforeRequest)
	client.OnAfterResponse(d.onAfterResponse)
	client.OnError(d.onError)
}

func (d dumper) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	id := atomic.AddUint64(d.idcounter, 1)
	req.SetContext(context.WithValue(req.Context(), dumpCtxKey, id))
	return nil
}

func exchangeId(ctx context.Context) string {
	id, ok := ctx.Value(dumpCtxKey).(uint64)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%04d", id)
}

func (d dumper) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	d.output.Write(exchangeId(res.Request.Context()), formatExchange(res.Request, res, nil))
	return nil
}

func (d dumper) onError(req *resty.Request, err error) {
	var res *resty.Response
	if resErr, ok := err.(*resty.ResponseError); ok {
		res = resErr.Response
		err = resErr.Err
	}
	d.output.Write(exchangeId(req.Context()), formatExchange(req, res, err))
}

var passwordField = regexp.MustCompile(`("Password"\s*:\s*")[^"]*(")`)

func maskSecrets(body string) string {
	return passwordField.ReplaceAllString(body, "${1}***${2}")
}

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		for _, v := range headers[k] {
			lines = append(lines, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(lines, "\n")
}

func formatRequestBody(body any) string {
	switch body := body.(type) {
	case nil:
		return ""
	case []byte:
		return maskSecrets(string(body))
	case string:
		return maskSecrets(body)
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Sprintf("failed to encode request body: %s", err.Error())
		}
		return maskSecrets(string(encoded))
	}
}

const exchangeTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s`

func formatExchange(req *resty.Request, res *resty.Response, err error) string {
	requestHeaders := formatHeaders(req.Header)
	if req.RawRequest != nil {
		requestHeaders = formatHeaders(req.RawRequest.Header)
	}

	response := ""
	switch {
	case err != nil && res == nil:
		response = "error: " + err.Error()
	case res != nil:
		response = fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			strconv.Itoa(res.StatusCode()),
			formatHeaders(res.Header()),
			res.String(),
		)
		if err != nil {
			response = "error: " + err.Error() + "\n\n" + response
		}
	}

	return fmt.Sprintf(
		exchangeTemplate,
		req.Method, req.URL,
		requestHeaders,
		formatRequestBody(req.Body),
		response,
	)
}
