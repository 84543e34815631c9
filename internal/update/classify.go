package update

// Classify: PayloadTypes 순서대로 키 존재 여부를 검사해 처음 일치한 타입과 값을 반환한다.
// 값이 비어 있어도 키가 있으면 일치로 본다. 일치하는 키가 없으면 (Unsupported, nil).
func Classify(u Update) (PayloadType, any) {
	if u == nil {
		return Unsupported, nil
	}
	for _, t := range PayloadTypes {
		if payload, ok := u[string(t)]; ok {
			return t, payload
		}
	}
	return Unsupported, nil
}

// FieldGetter: 타입 캐스팅된 페이로드가 원본 맵과 같은 방식으로 필드를 노출할 때 구현한다.
type FieldGetter interface {
	Field(key string) (any, bool)
}

// Field: 원본 맵 또는 FieldGetter 페이로드에서 key 값을 읽는다.
func Field(payload any, key string) (any, bool) {
	switch p := payload.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := p[key]
		return v, ok
	case Update:
		v, ok := p[key]
		return v, ok
	case FieldGetter:
		return p.Field(key)
	default:
		return nil, false
	}
}

// FieldValue: Field 의 값만 반환한다. 없으면 nil.
func FieldValue(payload any, key string) any {
	v, _ := Field(payload, key)
	return v
}
