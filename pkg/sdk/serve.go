package sdk

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/veriflow-io/veriflow/pkg/api"
)

// Serve implements the out-of-process engine contract: a single JSON request
// arrives as the first argument or as one line on standard input, and the
// response is written to standard output
func Serve(h Handler) {
	raw := ""
	if len(os.Args) > 1 {
		raw = os.Args[1]
	} else {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		raw = strings.TrimRight(line, "\r\n")
	}
	respond(os.Stdout, h, raw)
}

func respond(w io.Writer, h Handler, raw string) {
	resp := HandleRaw(h, []byte(raw))
	data, err := json.Marshal(resp)
	if err != nil {
		// last-resort shape, still a valid wire error
		data, _ = json.Marshal(api.ErrorResponse(
			api.ErrorEngineProcessing, err.Error()))
	}
	_, _ = fmt.Fprintln(w, string(data))
}

// HandleRaw decodes a raw wire request and dispatches it. Undecodable
// payloads produce a FailedToParseIPCJson error response rather than a
// transport failure, since the engine did receive the bytes
func HandleRaw(h Handler, raw []byte) *api.Response {
	if !gjson.ValidBytes(raw) {
		return api.ErrorResponse(api.ErrorFailedToParseIPCJson,
			"The IPC message was not valid JSON.")
	}
	var req api.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return api.ErrorResponse(api.ErrorFailedToParseIPCJson,
			fmt.Sprintf("The IPC message was invalid. (%s)", err))
	}
	return h.Handle(&req)
}
