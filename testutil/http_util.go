package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

func Unmarshal(res *http.Response, v interface{}, t *testing.T) {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	err = json.Unmarshal(body, v)
	if err != nil {
		t.Fatal(err)
	}
}

func Get(url string, t *testing.T) *http.Response {
	return SendRequest(http.MethodGet, url, nil, t)
}

func Post(url string, request interface{}, t *testing.T) *http.Response {
	return SendRequest(http.MethodPost, url, request, t)
}

func SendRequest(method, url string, request interface{}, t *testing.T) *http.Response {
	var body io.Reader
	if request != nil {
		data, err := json.Marshal(request)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return res
}
