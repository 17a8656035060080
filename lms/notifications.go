// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package lms

import (
	"context"
	"fmt"
	"net/http"
)

// ListNotifications returns the notifications visible to the caller.
func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	var notifications []Notification
	if err := c.doJSON(ctx, http.MethodGet, "notifications/", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	path := fmt.Sprintf("notifications/%d/mark_read/", notificationID)
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

// RegisterDevice records a push token with the backend.
func (c *Client) RegisterDevice(ctx context.Context, request DeviceRequest) (*Device, error) {
	var device Device
	if err := c.doJSON(ctx, http.MethodPost, "devices/", request, &device); err != nil {
		return nil, err
	}
	return &device, nil
}
