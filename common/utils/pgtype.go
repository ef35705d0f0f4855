package utils

import (
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/mo"
)

func TextFromOption(o mo.Option[string]) pgtype.Text {
	v, ok := o.Get()
	return pgtype.Text{String: v, Valid: ok}
}

func OptionFromText(t pgtype.Text) mo.Option[string] {
	if !t.Valid {
		return mo.None[string]()
	}
	return mo.Some(t.String)
}

// TextFromString maps the empty string to NULL.
func TextFromString(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func BoolFromOption(o mo.Option[bool]) pgtype.Bool {
	v, ok := o.Get()
	return pgtype.Bool{Bool: v, Valid: ok}
}

func OptionFromBool(b pgtype.Bool) mo.Option[bool] {
	if !b.Valid {
		return mo.None[bool]()
	}
	return mo.Some(b.Bool)
}

func Timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

// TimePtr returns nil for a NULL timestamp.
func TimePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// DecodeJSONColumn unmarshals a nullable JSONB column; NULL leaves dst untouched.
func DecodeJSONColumn(b []byte, dst any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
