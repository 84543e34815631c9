package update

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

var (
	// ErrEmptyBody: 업데이트 본문이 비어 있음
	ErrEmptyBody = errors.New("empty update body")
	// ErrNotObject: 업데이트 본문이 JSON 객체가 아님
	ErrNotObject = errors.New("update body is not a json object")
	// ErrTooLarge: 업데이트 본문이 허용 크기를 넘음
	ErrTooLarge = errors.New("update body too large")
)

// Decode: 웹훅 본문을 Update 로 디코딩한다. 숫자는 정밀도 유지를 위해 json.Number 로 남긴다.
// maxBytes 를 넘는 본문은 ErrTooLarge, 최상위 값 뒤에 공백 외 데이터가 있으면 에러.
func Decode(r io.Reader, maxBytes int64) (Update, error) {
	if r == nil {
		return nil, ErrEmptyBody
	}

	body, err := readBody(r, maxBytes)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	// Unmarshal 은 최상위 값 뒤의 데이터를 거부한다. 스트림 디코더는 UseNumber 용이다.
	var whole json.RawMessage
	if err := json.Unmarshal(body, &whole); err != nil {
		return nil, fmt.Errorf("decode update failed: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode update failed: %w", err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Update(obj), nil
}

// readBody: 최대 maxBytes 까지 읽는다. 한 바이트라도 더 있으면 ErrTooLarge. maxBytes <= 0 이면 제한 없음.
func readBody(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read update body failed: %w", err)
		}
		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read update body failed: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, ErrTooLarge
	}
	return body, nil
}
