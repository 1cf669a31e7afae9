package notifications

import "github.com/fynans/fynans-api/models"

// ResolveChannels returns the subset of the requested delivery methods a
// notification of the given type may actually be dispatched on. The requested
// set is intersected with the user's globally enabled channels; a per-type
// override, when present, replaces the global set for that type (so an
// explicit opt-in can re-enable a channel the global toggles turned off).
// The result is always a subset of requested.
func ResolveChannels(pref models.NotificationPreference, notificationType string, requested []string) []string {
	allowed := map[string]bool{
		models.DeliveryMethodPush:  pref.EnablePushNotifications,
		models.DeliveryMethodInApp: pref.EnableInAppNotifications,
		models.DeliveryMethodToast: pref.EnableToastNotifications,
	}

	if override, ok := pref.TypePreferences[notificationType]; ok {
		for ch := range allowed {
			allowed[ch] = false
		}
		for _, ch := range override.Channels {
			if _, known := allowed[ch]; known {
				allowed[ch] = true
			}
		}
	}

	effective := make([]string, 0, len(requested))
	for _, ch := range requested {
		if allowed[ch] {
			effective = append(effective, ch)
		}
	}
	return effective
}

func containsChannel(channels []string, channel string) bool {
	for _, ch := range channels {
		if ch == channel {
			return true
		}
	}
	return false
}

func removeChannel(channels []string, drop ...string) []string {
	kept := make([]string, 0, len(channels))
	for _, ch := range channels {
		if !containsChannel(drop, ch) {
			kept = append(kept, ch)
		}
	}
	return kept
}
