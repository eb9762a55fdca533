package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"idreg/internal/actions"
)

// errActionFailed is returned when an action ends in a business or generic failure.
var errActionFailed = errors.New("action failed")

// finish shows the result the way the console would and prints any body.
func (a *app) finish(c *actions.Client, res actions.Result) error {
	c.Dispatch(res, actions.NotifierFunc(a.notify), actions.NavigatorFunc(a.navigate))
	if len(res.Body) > 0 {
		if err := a.printBody(res.Body); err != nil {
			return err
		}
	}
	if res.SavedPath != "" && !a.jsonOut {
		fmt.Fprintln(a.out, res.SavedPath)
	}
	if !res.OK() {
		return errActionFailed
	}
	return nil
}

func (a *app) notify(n actions.Notification) {
	if a.jsonOut {
		_ = json.NewEncoder(a.errOut).Encode(n)
		return
	}
	fmt.Fprintf(a.errOut, "[%s] %s\n", n.Severity, n.Message)
}

func (a *app) navigate(route string, state any) error {
	if a.jsonOut {
		return json.NewEncoder(a.errOut).Encode(actions.Navigation{Route: route, State: state})
	}
	_, err := fmt.Fprintf(a.errOut, "-> %s\n", route)
	return err
}

func (a *app) printBody(body json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return errors.Wrap(err, "failed to format response")
	}
	buf.WriteByte('\n')
	_, err := a.out.Write(buf.Bytes())
	return err
}

func (a *app) printJSON(v any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// readValues loads request values from a JSON or YAML file, or stdin for "-".
func readValues(path string, stdin io.Reader) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read values")
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "values must be a JSON or YAML object")
	}
	if values == nil {
		return nil, errors.New("values must be a JSON or YAML object")
	}
	return values, nil
}
