// Package handler contains the HTTP handlers for the dispatch API. Every
// endpoint answers with the same envelope: {success, data?, count?, error?,
// message?}.
package handler

import "strconv"

// parseID parses a numeric route parameter
func parseID(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// buildUpdates filters a decoded JSON body through an entity's updatable
// column allowlist. A key that is present is applied as sent, including
// explicit null, zero, false and empty string; a key that is absent keeps
// the stored value. This is what makes partial updates unambiguous.
func buildUpdates(body map[string]interface{}, allowed ...string) map[string]interface{} {
	updates := make(map[string]interface{})
	for _, column := range allowed {
		if value, present := body[column]; present {
			updates[column] = value
		}
	}
	return updates
}
