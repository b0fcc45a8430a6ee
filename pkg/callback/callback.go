// Package callback encodes and decodes inline button payloads of the form
// action:arg1:arg2. Arguments are numeric ids or short tokens, never free text.
package callback

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxLen is Telegram's limit for callback_data
const MaxLen = 64

const sep = ":"

// Button payload actions
const (
	VipApprove   = "vip_approve"
	VipReject    = "vip_reject"
	VipPlan      = "vip_plan"
	VipPay       = "vip_pay"
	VipPlans     = "vip_plans"
	VipProof     = "vip_proof"
	Anime        = "anime"
	Seasons      = "seasons"
	Season       = "season"
	Episode      = "episode"
	Favorite     = "fav"
	Comments     = "comments"
	AddComment   = "comment_add"
	Short        = "short"
	SearchPage   = "search_page"
	SearchMode   = "search_mode"
	ListPage     = "list_page"
	CheckSubs    = "check_subs"
	EditAnime    = "edit_anime"
	EditEpisode  = "edit_episode"
	DeleteAnime  = "del_anime"
	DeleteEp     = "del_episode"
	AddEpisode   = "add_episode"
	AddShort     = "add_short"
	ChannelPost  = "channel_post"
	Setting      = "setting"
	Maintenance  = "maintenance"
	AdminPanel   = "admin_panel"
	AdminList    = "admin_list"
	AdminView    = "admin_view"
	AdminDelete  = "admin_delete"
	AdminAdd     = "admin_add"
	Stats        = "stats"
	Noop         = "noop"
	BackToMenu   = "back_menu"
	PostFormat   = "post_format"
	PlanDelete   = "plan_delete"
	PickAnimeFor = "pick"
	PickEpisode  = "pick_ep"
	Broadcast    = "broadcast"
)

// Button is a transport-neutral inline button
type Button struct {
	Text string
	Data string
	URL  string
}

// Keyboard is rows of buttons
type Keyboard [][]Button

// Row is a shorthand for one keyboard row
func Row(buttons ...Button) []Button {
	return buttons
}

// Btn builds a callback button whose payload is known to be valid
func Btn(text, action string, args ...interface{}) Button {
	return Button{Text: text, Data: MustEncode(action, args...)}
}

// Link builds a URL button
func Link(text, url string) Button {
	return Button{Text: text, URL: url}
}

// Payload is a decoded button payload
type Payload struct {
	Action string
	Args   []string
}

// Encode joins action and args. It fails when a token contains the separator or the
// result exceeds MaxLen.
func Encode(action string, args ...interface{}) (string, error) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, action)
	for _, a := range args {
		s := fmt.Sprint(a)
		if strings.Contains(s, sep) {
			return "", fmt.Errorf("callback argument %q contains %q", s, sep)
		}
		parts = append(parts, s)
	}
	if strings.Contains(action, sep) || action == "" {
		return "", fmt.Errorf("invalid callback action %q", action)
	}
	data := strings.Join(parts, sep)
	if len(data) > MaxLen {
		return "", fmt.Errorf("callback data %q exceeds %d bytes", data, MaxLen)
	}
	return data, nil
}

// MustEncode is Encode for payloads built from numeric ids
func MustEncode(action string, args ...interface{}) string {
	data, err := Encode(action, args...)
	if err != nil {
		panic(err)
	}
	return data
}

// Parse splits data into action and args
func Parse(data string) (Payload, error) {
	if data == "" || len(data) > MaxLen {
		return Payload{}, fmt.Errorf("invalid callback data length %d", len(data))
	}
	parts := strings.Split(data, sep)
	if parts[0] == "" {
		return Payload{}, fmt.Errorf("callback data %q has no action", data)
	}
	return Payload{Action: parts[0], Args: parts[1:]}, nil
}

// Arg returns argument i or ""
func (p Payload) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// Int64 parses argument i
func (p Payload) Int64(i int) (int64, error) {
	if i < 0 || i >= len(p.Args) {
		return 0, fmt.Errorf("callback %q has no argument %d", p.Action, i)
	}
	return strconv.ParseInt(p.Args[i], 10, 64)
}

// Uint parses argument i as a row id
func (p Payload) Uint(i int) (uint, error) {
	n, err := p.Int64(i)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("callback %q argument %d is negative", p.Action, i)
	}
	return uint(n), nil
}

// Int parses argument i as a page or position
func (p Payload) Int(i int) (int, error) {
	n, err := p.Int64(i)
	return int(n), err
}

func (p Payload) String() string {
	if len(p.Args) == 0 {
		return p.Action
	}
	return p.Action + sep + strings.Join(p.Args, sep)
}
