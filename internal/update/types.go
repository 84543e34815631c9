package update

// User: 메시지 발신자
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Chat: 대화방
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// Field 는 FieldGetter 구현이다.
func (u *User) Field(key string) (any, bool) {
	if u == nil {
		return nil, false
	}
	switch key {
	case "id":
		return u.ID, true
	case "is_bot":
		return u.IsBot, true
	case "first_name":
		return u.FirstName, true
	case "last_name":
		return u.LastName, u.LastName != ""
	case "username":
		return u.Username, u.Username != ""
	}
	return nil, false
}

// Field 는 FieldGetter 구현이다.
func (c *Chat) Field(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	switch key {
	case "id":
		return c.ID, true
	case "type":
		return c.Type, true
	case "title":
		return c.Title, c.Title != ""
	case "username":
		return c.Username, c.Username != ""
	}
	return nil, false
}

// Location: 위치 정보
type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Message: message / edited_message / channel_post / edited_channel_post 페이로드
type Message struct {
	MessageID int64          `json:"message_id"`
	Date      int64          `json:"date"`
	From      *User          `json:"from,omitempty"`
	Chat      *Chat          `json:"chat,omitempty"`
	Text      *string        `json:"text,omitempty"`
	Raw       map[string]any `json:"-"`
}

// Field 는 FieldGetter 구현이다. 구조체에 없는 키는 원본 맵에서 찾는다.
func (m *Message) Field(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	switch key {
	case "message_id":
		return m.MessageID, true
	case "date":
		return m.Date, true
	case "from":
		return presentPtr(m.From)
	case "chat":
		return presentPtr(m.Chat)
	case "text":
		if m.Text == nil {
			return nil, false
		}
		return *m.Text, true
	}
	return rawField(m.Raw, key)
}

// InlineQuery: inline_query 페이로드
type InlineQuery struct {
	ID       string         `json:"id"`
	From     *User          `json:"from,omitempty"`
	Location *Location      `json:"location,omitempty"`
	Query    string         `json:"query"`
	Offset   string         `json:"offset"`
	Raw      map[string]any `json:"-"`
}

// Field 는 FieldGetter 구현이다.
func (q *InlineQuery) Field(key string) (any, bool) {
	if q == nil {
		return nil, false
	}
	switch key {
	case "id":
		return q.ID, true
	case "from":
		return presentPtr(q.From)
	case "location":
		return presentPtr(q.Location)
	case "query":
		return q.Query, true
	case "offset":
		return q.Offset, true
	}
	return rawField(q.Raw, key)
}

// ChosenInlineResult: chosen_inline_result 페이로드
type ChosenInlineResult struct {
	ResultID        string         `json:"result_id"`
	From            *User          `json:"from,omitempty"`
	Location        *Location      `json:"location,omitempty"`
	InlineMessageID string         `json:"inline_message_id,omitempty"`
	Query           string         `json:"query"`
	Raw             map[string]any `json:"-"`
}

// Field 는 FieldGetter 구현이다.
func (r *ChosenInlineResult) Field(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	switch key {
	case "result_id":
		return r.ResultID, true
	case "from":
		return presentPtr(r.From)
	case "location":
		return presentPtr(r.Location)
	case "inline_message_id":
		return r.InlineMessageID, r.InlineMessageID != ""
	case "query":
		return r.Query, true
	}
	return rawField(r.Raw, key)
}

// CallbackQuery: callback_query 페이로드
type CallbackQuery struct {
	ID              string         `json:"id"`
	From            *User          `json:"from,omitempty"`
	Message         *Message       `json:"message,omitempty"`
	InlineMessageID string         `json:"inline_message_id,omitempty"`
	Data            string         `json:"data"`
	Raw             map[string]any `json:"-"`
}

// Field 는 FieldGetter 구현이다.
func (c *CallbackQuery) Field(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	switch key {
	case "id":
		return c.ID, true
	case "from":
		return presentPtr(c.From)
	case "message":
		return presentPtr(c.Message)
	case "inline_message_id":
		return c.InlineMessageID, c.InlineMessageID != ""
	case "data":
		return c.Data, true
	}
	return rawField(c.Raw, key)
}

func presentPtr[T any](p *T) (any, bool) {
	if p == nil {
		return nil, false
	}
	return p, true
}

func rawField(raw map[string]any, key string) (any, bool) {
	if raw == nil {
		return nil, false
	}
	v, ok := raw[key]
	return v, ok
}
