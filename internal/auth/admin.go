package auth

// AdminList is the set of Slack user IDs allowed to run admin commands.
type AdminList struct {
	ids map[string]struct{}
}

// NewAdminList builds the allowlist from configuration.
func NewAdminList(userIDs []string) *AdminList {
	ids := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		ids[id] = struct{}{}
	}
	return &AdminList{ids: ids}
}

// IsAdmin reports whether the Slack user may run admin commands.
func (a *AdminList) IsAdmin(slackUserID string) bool {
	_, ok := a.ids[slackUserID]
	return ok
}
