package telegram

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type apiCall struct {
	Method string
	Params map[string]interface{}
}

// Str returns a request parameter rendered as a string
func (c apiCall) Str(key string) string {
	switch v := c.Params[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// fakeAPI is a Bot API stand-in that records every call
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
	// replies overrides the response body per method
	replies map[string]string
	srv     *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	api := &fakeAPI{replies: make(map[string]string)}
	api.srv = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.srv.Close)
	return api
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	body, _ := io.ReadAll(r.Body)
	params := map[string]interface{}{}
	_ = json.Unmarshal(body, &params)

	a.mu.Lock()
	a.calls = append(a.calls, apiCall{Method: method, Params: params})
	reply, ok := a.replies[method]
	a.mu.Unlock()

	if !ok {
		switch method {
		case "answerCallbackQuery", "setMyCommands":
			reply = `{"ok":true,"result":true}`
		case "getChatMember":
			reply = `{"ok":true,"result":{"status":"member","user":{"id":1}}}`
		case "sendPhoto":
			reply = `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"},"photo":[{"file_id":"x","file_unique_id":"x","width":1,"height":1}]}}`
		case "sendVideo":
			reply = `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"},"video":{"file_id":"x","file_unique_id":"x","width":1,"height":1,"duration":1}}}`
		default:
			reply = `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, reply)
}

func (a *fakeAPI) Calls(method string) []apiCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []apiCall
	for _, c := range a.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (a *fakeAPI) Bot(t *testing.T) *tele.Bot {
	c, err := NewClient(Settings{Token: "test-token", URL: a.srv.URL, Offline: true})
	require.NoError(t, err)
	return c.Bot
}

func textUpdate(from int64, text string) tele.Update {
	return tele.Update{Message: &tele.Message{
		ID:     10,
		Sender: &tele.User{ID: from, FirstName: "Ali"},
		Chat:   &tele.Chat{ID: from, Type: tele.ChatPrivate},
		Text:   text,
	}}
}

func callbackUpdate(from int64, data string) tele.Update {
	return tele.Update{Callback: &tele.Callback{
		ID:     "cb1",
		Sender: &tele.User{ID: from},
		Data:   data,
		Message: &tele.Message{
			ID:   20,
			Chat: &tele.Chat{ID: from, Type: tele.ChatPrivate},
		},
	}}
}
