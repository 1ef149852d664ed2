package transfer

// PostCreation carries a new content item. Date and Time stay separate
// fields all the way to the resolver ("2006-01-02" and "15:04"); SaveAsDraft
// keeps the item a draft even when both are present.
type PostCreation struct {
	Caption     string   `json:"caption"`
	MediaRefs   []string `json:"media_refs"`
	PlatformIDs []string `json:"platform_ids"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	SaveAsDraft bool     `json:"save_as_draft"`
}

// PostUpdate is a partial edit; nil fields are left unchanged. A scheduled
// item's new date/time pair is re-resolved from scratch, never patched onto
// the old instant.
type PostUpdate struct {
	Caption     *string   `json:"caption"`
	MediaRefs   *[]string `json:"media_refs"`
	PlatformIDs *[]string `json:"platform_ids"`
	Date        *string   `json:"date"`
	Time        *string   `json:"time"`
}

// PublishAction requests a publish. Immediate when Date/Time are absent,
// otherwise scheduled at the resolved instant. PlatformIDs may add targets
// beyond the item's stored set.
type PublishAction struct {
	PlatformIDs []string `json:"platform_ids"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
}
