package vkimpl

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/9049480440/vk-hashtag-monitor/pkg/errors"
)

// GetGroupName resolves a community name through groups.getById.
func (c *VKImpl) GetGroupName(ctx context.Context, groupID int64) (string, error) {
	c.logger.Debug("Resolving group name", "group_id", groupID)

	params := url.Values{}
	params.Set("group_id", strconv.FormatInt(groupID, 10))

	var result []struct {
		Name string `json:"name"`
	}
	if err := c.call(ctx, "groups.getById", params, &result); err != nil {
		c.logger.Warn("Group lookup failed", "group_id", groupID, "error", err)
		return "", errors.ErrNotFound
	}
	if len(result) == 0 || result[0].Name == "" {
		return "", errors.ErrNotFound
	}
	return result[0].Name, nil
}

// GetUserName resolves a user's display name through users.get.
func (c *VKImpl) GetUserName(ctx context.Context, userID int64) (string, error) {
	c.logger.Debug("Resolving user name", "user_id", userID)

	params := url.Values{}
	params.Set("user_ids", strconv.FormatInt(userID, 10))

	var result []struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.call(ctx, "users.get", params, &result); err != nil {
		c.logger.Warn("User lookup failed", "user_id", userID, "error", err)
		return "", errors.ErrNotFound
	}
	if len(result) == 0 {
		return "", errors.ErrNotFound
	}

	fullName := strings.TrimSpace(result[0].FirstName + " " + result[0].LastName)
	if fullName == "" {
		return "", errors.ErrNotFound
	}
	return fullName, nil
}
