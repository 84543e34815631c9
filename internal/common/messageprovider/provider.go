// Package messageprovider: YAML 메시지 카탈로그에서 "{name}" 치환이 적용된 응답 문구를 조회한다.
package messageprovider

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider: 점(.)으로 구분된 키로 문구를 조회한다. 생성 이후 읽기 전용이다.
type Provider struct {
	root map[string]any
}

// Param: 템플릿 치환 값
type Param struct {
	Key   string
	Value any
}

// P: Param 생성 헬퍼
func P(key string, value any) Param {
	return Param{Key: key, Value: value}
}

// NewFromYAML: YAML 문서 전체를 카탈로그로 사용한다. 빈 문서는 빈 카탈로그.
func NewFromYAML(yamlContent string) (*Provider, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(yamlContent), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal yaml failed: %w", err)
	}
	if raw == nil {
		return &Provider{root: make(map[string]any)}, nil
	}

	root, ok := normalizeYAMLValue(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected yaml root type: %T", raw)
	}
	return &Provider{root: root}, nil
}

// NewFromYAMLAtPath: rootKey 아래 객체만 카탈로그로 사용한다. (예: 봇별 섹션)
func NewFromYAMLAtPath(yamlContent string, rootKey string) (*Provider, error) {
	provider, err := NewFromYAML(yamlContent)
	if err != nil {
		return nil, err
	}

	rootKey = strings.TrimSpace(rootKey)
	if rootKey == "" {
		return provider, nil
	}

	value, ok := resolveDottedKey(provider.root, rootKey)
	if !ok {
		return nil, fmt.Errorf("yaml root key not found: %q", rootKey)
	}
	sub, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("yaml root key must be an object: %q (got %T)", rootKey, value)
	}
	return &Provider{root: sub}, nil
}

// Has: key 가 존재하는지 확인한다.
func (p *Provider) Has(key string) bool {
	if p == nil {
		return false
	}
	_, ok := resolveDottedKey(p.root, key)
	return ok
}

// Get: key 의 문구를 params 로 치환해 반환한다. 없는 키는 key 자체를 반환한다.
func (p *Provider) Get(key string, params ...Param) string {
	if p == nil || strings.TrimSpace(key) == "" {
		return key
	}

	value, ok := resolveDottedKey(p.root, key)
	if !ok {
		return key
	}
	template, ok := value.(string)
	if !ok {
		return fmt.Sprint(value)
	}

	if len(params) == 0 {
		return template
	}
	pairs := make([]string, 0, len(params)*2)
	for _, param := range params {
		pairs = append(pairs, "{"+param.Key+"}", fmt.Sprint(param.Value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func resolveDottedKey(root map[string]any, key string) (any, bool) {
	var current any = root
	for _, part := range strings.Split(key, ".") {
		nextMap, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := nextMap[part]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func normalizeYAMLValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, vv := range typed {
			out[k] = normalizeYAMLValue(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, vv := range typed {
			out[fmt.Sprint(k)] = normalizeYAMLValue(vv)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, vv := range typed {
			out = append(out, normalizeYAMLValue(vv))
		}
		return out
	default:
		return v
	}
}
