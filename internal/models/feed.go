package models

import "time"

// FeedItemType discriminates the variants of a feed item.
type FeedItemType string

const (
	FeedItemNotice       FeedItemType = "notice"
	FeedItemAnnouncement FeedItemType = "announcement"
	FeedItemEvent        FeedItemType = "event"
)

// FeedItem is a tagged union over Notice, Announcement and Event. Exactly
// one of the record pointers is set, matching Type. SortDate carries the
// timestamp the merged feed is ordered by: creation time for notices and
// announcements, the event date for events.
type FeedItem struct {
	Type     FeedItemType `json:"type"`
	SortDate time.Time    `json:"sortDate"`

	Notice       *Notice       `json:"notice,omitempty"`
	Announcement *Announcement `json:"announcement,omitempty"`
	Event        *Event        `json:"event,omitempty"`
}

// NoticeFeedItem wraps a notice as a feed item.
func NoticeFeedItem(n Notice) FeedItem {
	item := n
	return FeedItem{Type: FeedItemNotice, SortDate: n.CreatedAt, Notice: &item}
}

// AnnouncementFeedItem wraps an announcement as a feed item.
func AnnouncementFeedItem(a Announcement) FeedItem {
	item := a
	return FeedItem{Type: FeedItemAnnouncement, SortDate: a.CreatedAt, Announcement: &item}
}

// EventFeedItem wraps an event as a feed item, sorted by the event date
// rather than creation time.
func EventFeedItem(e Event) FeedItem {
	item := e
	return FeedItem{Type: FeedItemEvent, SortDate: e.Date, Event: &item}
}

// FeedResponse is what GET /feed returns: the merged feed plus the set of
// club ids relevant to the requesting user.
type FeedResponse struct {
	Feed            []FeedItem `json:"feed"`
	RelevantClubIDs []string   `json:"relevantClubIds"`
}
