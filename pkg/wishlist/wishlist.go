// Package wishlist validates the raw wishlist payload the Steam store
// returns for a profile. The body is a JSON object mapping app IDs to
// loosely-typed item objects; nothing in it is trusted until it has been
// through ParseBody.
package wishlist

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Item is the normalized shape consumed downstream. ReleaseString is the
// only field the date grammar reads; the rest passes through to the
// calendar artifact.
type Item struct {
	AppID          string
	Title          string
	ReviewScore    int
	ReviewSummary  string
	ReviewsTotal   string
	ReviewsPercent int
	ReleaseDate    int64
	ReleaseString  string
	Type           string
	Tags           []string
	Rank           int
	Priority       int
	Added          int64
	IsFreeGame     bool
	DeckCompat     string
}

// RecordError describes a single record that failed validation. One bad
// record never aborts validation of its siblings.
type RecordError struct {
	AppID  string
	Reason string
}

func (e RecordError) Error() string {
	return fmt.Sprintf("wishlist item %s: %s", e.AppID, e.Reason)
}

var ErrMalformedBody = errors.New("wishlist body is not a JSON object")

// ParseBody validates the raw response body. It returns the items that
// passed validation keyed by app ID, plus a RecordError per rejected
// record. A body that isn't a JSON object at all is an error for the
// whole profile.
func ParseBody(body []byte) (map[string]Item, []RecordError, error) {
	if !gjson.ValidBytes(body) {
		return nil, nil, ErrMalformedBody
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, nil, ErrMalformedBody
	}

	items := make(map[string]Item)
	var rejected []RecordError
	root.ForEach(func(key, value gjson.Result) bool {
		appID := key.String()
		item, err := validateItem(appID, value)
		if err != nil {
			rejected = append(rejected, RecordError{AppID: appID, Reason: err.Error()})
			return true
		}
		items[appID] = item
		return true
	})
	return items, rejected, nil
}

// validateItem checks the required fields and coerces the type-ambiguous
// ones. Steam sends release_date and reviews_total as either strings or
// numbers depending on the title. Unknown fields are ignored.
func validateItem(appID string, v gjson.Result) (Item, error) {
	if !v.IsObject() {
		return Item{}, errors.New("not a JSON object")
	}

	name := v.Get("name")
	if name.Type != gjson.String || name.Str == "" {
		return Item{}, errors.New("missing or invalid name")
	}
	reviewDesc := v.Get("review_desc")
	if reviewDesc.Type != gjson.String {
		return Item{}, errors.New("missing or invalid review_desc")
	}
	releaseString := v.Get("release_string")
	if releaseString.Type != gjson.String {
		return Item{}, errors.New("missing or invalid release_string")
	}
	releaseDate := v.Get("release_date")
	if releaseDate.Type != gjson.String && releaseDate.Type != gjson.Number {
		return Item{}, errors.New("missing or invalid release_date")
	}
	reviewsTotal := v.Get("reviews_total")
	if reviewsTotal.Exists() && reviewsTotal.Type != gjson.String && reviewsTotal.Type != gjson.Number {
		return Item{}, errors.New("invalid reviews_total")
	}

	var tags []string
	for _, tag := range v.Get("tags").Array() {
		tags = append(tags, tag.String())
	}

	return Item{
		AppID:          appID,
		Title:          name.Str,
		ReviewScore:    int(v.Get("review_score").Int()),
		ReviewSummary:  reviewDesc.Str,
		ReviewsTotal:   reviewsTotal.String(),
		ReviewsPercent: int(v.Get("reviews_percent").Int()),
		ReleaseDate:    releaseDate.Int(),
		ReleaseString:  releaseString.Str,
		Type:           v.Get("type").String(),
		Tags:           tags,
		Rank:           int(v.Get("rank").Int()),
		Priority:       int(v.Get("priority").Int()),
		Added:          v.Get("added").Int(),
		IsFreeGame:     v.Get("is_free_game").Bool(),
		DeckCompat:     v.Get("deck_compat").String(),
	}, nil
}
