package wizard

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/PancyStudios/AnimeBotGo/pkg/errors"
)

// Validator parses one input into the fields it contributes. It must not have side
// effects; anything that needs the store belongs in Step.Check.
type Validator func(in Input, collected Values) (Values, error)

// Text accepts any non-empty text message
func Text(field string) Validator {
	return func(in Input, _ Values) (Values, error) {
		if in.Kind != InputText || strings.TrimSpace(in.Text) == "" {
			return nil, errors.Validation("Iltimos, matn kiriting.")
		}
		return Values{field: strings.TrimSpace(in.Text)}, nil
	}
}

// Slug accepts a single lower-cased token, as used for anime codes
func Slug(field string) Validator {
	return func(in Input, _ Values) (Values, error) {
		code := strings.ToLower(in.word())
		if in.Kind != InputText || code == "" || len(code) > 64 {
			return nil, errors.Validation("Iltimos, kodni kiriting (masalan: naruto).")
		}
		if strings.IndexFunc(code, unicode.IsSpace) >= 0 {
			return nil, errors.Validation("Kod bo'sh joysiz bo'lishi kerak.")
		}
		return Values{field: code}, nil
	}
}

// IntAtLeast accepts a base-10 integer not below min
func IntAtLeast(field string, min int) Validator {
	return func(in Input, _ Values) (Values, error) {
		n, err := strconv.Atoi(in.word())
		if in.Kind != InputText || err != nil || n < min {
			if min > 0 {
				return nil, errors.Validation("Iltimos, musbat butun son kiriting.")
			}
			return nil, errors.Validation("Iltimos, to'g'ri raqam kiriting.")
		}
		return Values{field: n}, nil
	}
}

// Int64 accepts any 64-bit integer, such as a chat or user id
func Int64(field string) Validator {
	return func(in Input, _ Values) (Values, error) {
		n, err := strconv.ParseInt(in.word(), 10, 64)
		if in.Kind != InputText || err != nil {
			return nil, errors.Validation("Iltimos, raqamli ID kiriting.")
		}
		return Values{field: n}, nil
	}
}

// Choice accepts one of a closed set of labels, matched case-insensitively
// against the text or the pressed button payload.
func Choice(field string, options map[string]any) Validator {
	normalized := make(map[string]any, len(options))
	for label, v := range options {
		normalized[strings.ToLower(strings.TrimSpace(label))] = v
	}
	return func(in Input, _ Values) (Values, error) {
		v, ok := normalized[strings.ToLower(in.word())]
		if !ok {
			return nil, errors.Validation("Iltimos, tugmalardan birini tanlang.")
		}
		return Values{field: v}, nil
	}
}

// YesNo is a Choice between the given labels producing a bool
func YesNo(field, yes, no string) Validator {
	return Choice(field, map[string]any{yes: true, no: false})
}

// Photo accepts an uploaded image and stores its file id
func Photo(field string) Validator {
	return func(in Input, _ Values) (Values, error) {
		if in.Kind != InputPhoto || in.FileID == "" {
			return nil, errors.Validation("Iltimos, rasm yuboring.")
		}
		return Values{field: in.FileID}, nil
	}
}

// Video accepts an uploaded video and stores its file id
func Video(field string) Validator {
	return func(in Input, _ Values) (Values, error) {
		if in.Kind != InputVideo || in.FileID == "" {
			return nil, errors.Validation("Iltimos, video yuboring.")
		}
		return Values{field: in.FileID}, nil
	}
}

// URL accepts an absolute http or https address
func URL(field string) Validator {
	return func(in Input, _ Values) (Values, error) {
		raw := in.word()
		u, err := url.Parse(raw)
		if in.Kind != InputText || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, errors.Validation("Iltimos, http yoki https manzil kiriting.")
		}
		return Values{field: raw}, nil
	}
}

// Keyword matches an exact word and contributes the given values
func Keyword(word string, set Values) Validator {
	want := strings.ToLower(strings.TrimSpace(word))
	return func(in Input, _ Values) (Values, error) {
		if strings.ToLower(in.word()) != want {
			return nil, errors.Validation("Kutilgan so'z: " + word)
		}
		return set.Clone(), nil
	}
}

// Optional lets the skip word store fallback instead of running v
func Optional(v Validator, skipWord string, fallback Values) Validator {
	skip := Keyword(skipWord, fallback)
	return func(in Input, collected Values) (Values, error) {
		if out, err := skip(in, collected); err == nil {
			return out, nil
		}
		return v(in, collected)
	}
}

// Message accepts any message and stores a reference to it for later copying
func Message(field string) Validator {
	return func(in Input, _ Values) (Values, error) {
		if in.Kind == InputCallback || in.MessageID == 0 {
			return nil, errors.Validation("Iltimos, xabar yuboring.")
		}
		return Values{
			field + "_chat_id":    in.ChatID,
			field + "_message_id": in.MessageID,
			field + "_kind":       in.Kind.String(),
		}, nil
	}
}

// Alternatives accepts an input that exactly one of vs accepts. Each alternative may
// contribute a different subset of fields. No match or an ambiguous match fails with hint.
func Alternatives(hint string, vs ...Validator) Validator {
	return func(in Input, collected Values) (Values, error) {
		var matched Values
		count := 0
		for _, v := range vs {
			out, err := v(in, collected)
			if err != nil {
				continue
			}
			count++
			matched = out
		}
		if count != 1 {
			return nil, errors.Validation(hint)
		}
		return matched, nil
	}
}
