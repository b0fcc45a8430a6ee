package models

import (
	"fmt"
	"strconv"
)

// ValueKind is the input shape an editable field accepts
type ValueKind int

const (
	ValueText ValueKind = iota
	ValuePositiveInt
	ValueNonNegativeInt
	ValueBool
	ValuePhoto
	ValueVideo
	ValueURL
)

// AnimeField is the closed set of anime columns an admin may edit
type AnimeField string

const (
	AnimeFieldTitle         AnimeField = "title"
	AnimeFieldDescription   AnimeField = "description"
	AnimeFieldGenre         AnimeField = "genre"
	AnimeFieldSeasonCount   AnimeField = "season_count"
	AnimeFieldTotalEpisodes AnimeField = "total_episodes"
	AnimeFieldIsVIP         AnimeField = "is_vip"
	AnimeFieldPosterURL     AnimeField = "poster_url"
	AnimeFieldPosterFileID  AnimeField = "poster_file_id"
)

type animeFieldSpec struct {
	label string
	kind  ValueKind
	set   func(a *Anime, v interface{}) error
}

var animeFieldOrder = []AnimeField{
	AnimeFieldTitle, AnimeFieldDescription, AnimeFieldGenre, AnimeFieldSeasonCount,
	AnimeFieldTotalEpisodes, AnimeFieldIsVIP, AnimeFieldPosterURL, AnimeFieldPosterFileID,
}

var animeFields = map[AnimeField]animeFieldSpec{
	AnimeFieldTitle: {"Nomi", ValueText, func(a *Anime, v interface{}) error {
		return setString(&a.Title, v)
	}},
	AnimeFieldDescription: {"Tavsif", ValueText, func(a *Anime, v interface{}) error {
		return setString(&a.Description, v)
	}},
	AnimeFieldGenre: {"Janr", ValueText, func(a *Anime, v interface{}) error {
		return setString(&a.Genre, v)
	}},
	AnimeFieldSeasonCount: {"Sezonlar soni", ValuePositiveInt, func(a *Anime, v interface{}) error {
		return setInt(&a.SeasonCount, v)
	}},
	AnimeFieldTotalEpisodes: {"Qismlar soni", ValueNonNegativeInt, func(a *Anime, v interface{}) error {
		return setInt(&a.TotalEpisodes, v)
	}},
	AnimeFieldIsVIP: {"VIP", ValueBool, func(a *Anime, v interface{}) error {
		return setBool(&a.IsVIP, v)
	}},
	AnimeFieldPosterURL: {"Poster URL", ValueURL, func(a *Anime, v interface{}) error {
		return setString(&a.PosterURL, v)
	}},
	AnimeFieldPosterFileID: {"Poster rasm", ValuePhoto, func(a *Anime, v interface{}) error {
		return setString(&a.PosterFileID, v)
	}},
}

// AnimeFields returns the editable anime fields in menu order
func AnimeFields() []AnimeField {
	out := make([]AnimeField, len(animeFieldOrder))
	copy(out, animeFieldOrder)
	return out
}

// Valid reports whether f is an editable field
func (f AnimeField) Valid() bool {
	_, ok := animeFields[f]
	return ok
}

// Label is the menu caption of the field
func (f AnimeField) Label() string {
	return animeFields[f].label
}

// Kind is the input shape the field accepts
func (f AnimeField) Kind() ValueKind {
	return animeFields[f].kind
}

// Column is the database column of the field
func (f AnimeField) Column() string {
	return string(f)
}

// Apply sets the field on a with a typed value
func (f AnimeField) Apply(a *Anime, v interface{}) error {
	spec, ok := animeFields[f]
	if !ok {
		return fmt.Errorf("unknown anime field %q", string(f))
	}
	return spec.set(a, v)
}

// EpisodeField is the closed set of episode columns an admin may edit
type EpisodeField string

const (
	EpisodeFieldTitle         EpisodeField = "title"
	EpisodeFieldSeasonNumber  EpisodeField = "season_number"
	EpisodeFieldEpisodeNumber EpisodeField = "episode_number"
	EpisodeFieldIsVIP         EpisodeField = "is_vip"
	EpisodeFieldVideoFileID   EpisodeField = "video_file_id"
)

type episodeFieldSpec struct {
	label string
	kind  ValueKind
	set   func(e *Episode, v interface{}) error
}

var episodeFieldOrder = []EpisodeField{
	EpisodeFieldTitle, EpisodeFieldSeasonNumber, EpisodeFieldEpisodeNumber,
	EpisodeFieldIsVIP, EpisodeFieldVideoFileID,
}

var episodeFields = map[EpisodeField]episodeFieldSpec{
	EpisodeFieldTitle: {"Nomi", ValueText, func(e *Episode, v interface{}) error {
		return setString(&e.Title, v)
	}},
	EpisodeFieldSeasonNumber: {"Sezon", ValuePositiveInt, func(e *Episode, v interface{}) error {
		return setInt(&e.SeasonNumber, v)
	}},
	EpisodeFieldEpisodeNumber: {"Qism raqami", ValuePositiveInt, func(e *Episode, v interface{}) error {
		return setInt(&e.EpisodeNumber, v)
	}},
	EpisodeFieldIsVIP: {"VIP", ValueBool, func(e *Episode, v interface{}) error {
		return setBool(&e.IsVIP, v)
	}},
	EpisodeFieldVideoFileID: {"Video", ValueVideo, func(e *Episode, v interface{}) error {
		return setString(&e.VideoFileID, v)
	}},
}

// EpisodeFields returns the editable episode fields in menu order
func EpisodeFields() []EpisodeField {
	out := make([]EpisodeField, len(episodeFieldOrder))
	copy(out, episodeFieldOrder)
	return out
}

func (f EpisodeField) Valid() bool {
	_, ok := episodeFields[f]
	return ok
}

func (f EpisodeField) Label() string {
	return episodeFields[f].label
}

func (f EpisodeField) Kind() ValueKind {
	return episodeFields[f].kind
}

func (f EpisodeField) Column() string {
	return string(f)
}

func (f EpisodeField) Apply(e *Episode, v interface{}) error {
	spec, ok := episodeFields[f]
	if !ok {
		return fmt.Errorf("unknown episode field %q", string(f))
	}
	return spec.set(e, v)
}

func setString(dst *string, v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected text, got %T", v)
	}
	*dst = s
	return nil
}

func setInt(dst *int, v interface{}) error {
	n, err := ToInt(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v interface{}) error {
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", v)
	}
	*dst = b
	return nil
}

// ToInt converts the numeric shapes produced by validators and JSON decoding.
func ToInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
