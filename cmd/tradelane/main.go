package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

var (
	tradelaneDataDir = defaultDataDir()
	statePath        = filepath.Join(tradelaneDataDir, "state.json")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "tradelane operator CLI"
	app.Usage = "Command line interface for tradelaned daemon operators"
	app.Commands = append(
		app.Commands,
		&cliConfig,
		&createtrade,
		&listtrades,
		&tradestate,
		&transition,
		&audittail,
		&fundescrow,
		&submitquote,
		&listquotes,
		&acceptquote,
		&addwebhook,
		&removewebhook,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	json.Unmarshal(file, &data)

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(tradelaneDataDir); os.IsNotExist(err) {
		os.Mkdir(tradelaneDataDir, os.ModeDir|0755)
	}

	currentData := map[string]string{}
	if file, err := os.ReadFile(statePath); err == nil {
		json.Unmarshal(file, &currentData)
	}
	for key, value := range data {
		currentData[key] = value
	}

	file, err := json.Marshal(currentData)
	if err != nil {
		return err
	}
	return os.WriteFile(statePath, file, 0644)
}

func daemonUrl() (string, error) {
	state, err := getState()
	if err != nil {
		return "", err
	}
	addr, ok := state["daemon_url"]
	if !ok || addr == "" {
		return "", errors.New("daemon_url is not set: try 'config init'")
	}
	return addr, nil
}

func doRequest(method, path string, payload interface{}) ([]byte, error) {
	baseUrl, err := daemonUrl()
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, baseUrl+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rs, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer rs.Body.Close()

	respBody, err := io.ReadAll(rs.Body)
	if err != nil {
		return nil, err
	}
	if rs.StatusCode >= 500 {
		return nil, fmt.Errorf("daemon error: %s", string(respBody))
	}
	return respBody, nil
}

func printJSON(buf []byte) {
	var out bytes.Buffer
	if err := json.Indent(&out, buf, "", "  "); err != nil {
		fmt.Println(string(buf))
		return
	}
	fmt.Println(out.String())
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[tradelane] %v\n", err)
	os.Exit(1)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tradelane-operator"
	}
	return filepath.Join(home, ".tradelane-operator")
}
