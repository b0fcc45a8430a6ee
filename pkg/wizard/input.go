package wizard

import (
	"strings"

	"github.com/PancyStudios/AnimeBotGo/pkg/callback"
)

// InputKind is the shape of an inbound event
type InputKind int

const (
	InputText InputKind = iota
	InputPhoto
	InputVideo
	InputCallback
	InputOther
)

func (k InputKind) String() string {
	switch k {
	case InputText:
		return "text"
	case InputPhoto:
		return "photo"
	case InputVideo:
		return "video"
	case InputCallback:
		return "callback"
	default:
		return "other"
	}
}

// Input is one user event routed into a wizard
type Input struct {
	Kind InputKind
	// Text is the message text, or the caption of a media message
	Text string
	// FileID is set for photo and video inputs
	FileID string
	// Data is the payload of a pressed inline button
	Data string
	// ChatID and MessageID identify the source message so it can be copied later
	ChatID    int64
	MessageID int
}

// TextInput is a plain text message
func TextInput(text string) Input {
	return Input{Kind: InputText, Text: text}
}

// PhotoInput is a photo upload
func PhotoInput(fileID string) Input {
	return Input{Kind: InputPhoto, FileID: fileID}
}

// VideoInput is a video upload
func VideoInput(fileID string) Input {
	return Input{Kind: InputVideo, FileID: fileID}
}

// CallbackInput is an inline button press
func CallbackInput(data string) Input {
	return Input{Kind: InputCallback, Data: data}
}

// word returns the trimmed text or callback payload
func (in Input) word() string {
	switch in.Kind {
	case InputText:
		return strings.TrimSpace(in.Text)
	case InputCallback:
		return strings.TrimSpace(in.Data)
	}
	return ""
}

// Prompt is what the bot shows for a step
type Prompt struct {
	Text string
	// Choices are reply keyboard labels offered with the prompt
	Choices []string
	// Inline buttons are attached to the message instead of Choices
	Inline callback.Keyboard
}

// Ask builds a static prompt
func Ask(text string, choices ...string) func(Values) Prompt {
	return func(Values) Prompt {
		return Prompt{Text: text, Choices: choices}
	}
}
