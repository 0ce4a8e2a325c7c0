package services

import (
	"encoding/json"
	"fmt"
	"log"

	"homerental-server/models"
	"homerental-server/storage"
	"homerental-server/utils"
)

// NotificationService handles all push notification logic
type NotificationService struct{}

// NewNotificationService creates a new notification service instance
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotificationData represents the data payload for notifications
type NotificationData struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	ListingID string `json:"listingId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	// Deep linking data
	Screen string `json:"screen"`
	Params string `json:"params"`
	Action string `json:"action,omitempty"`
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// SendNotificationToUser sends a notification to a specific user
func (ns *NotificationService) SendNotificationToUser(userID uint, title, body string, data NotificationData) error {
	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("Failed to get push tokens for user %d: %v", userID, err)
		return err
	}

	dataMap := map[string]string{
		"type":      data.Type,
		"id":        data.ID,
		"listingId": data.ListingID,
		"userId":    data.UserID,
		"screen":    data.Screen,
		"params":    data.Params,
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, dataMap); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token, err)
			lastError = err
		}
	}

	return lastError
}

// SendBookingRequestToLandlord notifies a landlord about a new viewing request
func (ns *NotificationService) SendBookingRequestToLandlord(bookingID, listingID, landlordID, renterID uint, renterName, listingTitle string) error {
	title := "New Viewing Request"
	body := fmt.Sprintf("%s requested a viewing for %s", renterName, listingTitle)

	params := fmt.Sprintf(`{"bookingId": %d, "listingId": %d}`, bookingID, listingID)

	data := NotificationData{
		Type:      "booking_request",
		ID:        fmt.Sprintf("%d", bookingID),
		ListingID: fmt.Sprintf("%d", listingID),
		UserID:    fmt.Sprintf("%d", renterID),
		Screen:    "LandlordBookings",
		Params:    params,
		Action:    "view_booking",
	}

	return ns.SendNotificationToUser(landlordID, title, body, data)
}

// SendBookingStatusToRenter notifies a renter that their request was decided
func (ns *NotificationService) SendBookingStatusToRenter(bookingID, listingID, renterID uint, listingTitle, status string) error {
	var title, body string

	switch status {
	case models.BookingStatusApproved:
		title = "Viewing Approved"
		body = fmt.Sprintf("Your viewing request for %s was approved", listingTitle)
	case models.BookingStatusRejected:
		title = "Viewing Declined"
		body = fmt.Sprintf("Your viewing request for %s was declined", listingTitle)
	default:
		title = "Viewing Request Updated"
		body = fmt.Sprintf("Your viewing request for %s is now %s", listingTitle, status)
	}

	params := fmt.Sprintf(`{"bookingId": %d, "listingId": %d}`, bookingID, listingID)

	data := NotificationData{
		Type:      "booking_status",
		ID:        fmt.Sprintf("%d", bookingID),
		ListingID: fmt.Sprintf("%d", listingID),
		UserID:    fmt.Sprintf("%d", renterID),
		Screen:    "MyBookings",
		Params:    params,
		Action:    "view_booking",
	}

	return ns.SendNotificationToUser(renterID, title, body, data)
}

// SendShiftingStatusToUser notifies a customer about their moving request
func (ns *NotificationService) SendShiftingStatusToUser(requestID, userID uint, status string) error {
	var title, body string

	switch status {
	case models.BookingStatusApproved:
		title = "Shifting Request Accepted"
		body = "A worker accepted your shifting request"
	case models.BookingStatusRejected:
		title = "Shifting Request Declined"
		body = "Your shifting request was declined"
	default:
		title = "Shifting Request Updated"
		body = fmt.Sprintf("Your shifting request is now %s", status)
	}

	data := NotificationData{
		Type:   "shifting_status",
		ID:     fmt.Sprintf("%d", requestID),
		UserID: fmt.Sprintf("%d", userID),
		Screen: "MyShiftingRequests",
		Params: fmt.Sprintf(`{"requestId": %d}`, requestID),
	}

	return ns.SendNotificationToUser(userID, title, body, data)
}

// SendListingStatusToLandlord notifies a landlord about moderation decisions
func (ns *NotificationService) SendListingStatusToLandlord(listingID, landlordID uint, listingTitle, status string) error {
	var title, body string

	switch status {
	case "approved":
		title = "Listing Approved"
		body = fmt.Sprintf("Your listing '%s' was approved and is now visible.", listingTitle)
	case "rejected":
		title = "Listing Rejected"
		body = fmt.Sprintf("Your listing '%s' was rejected. Please review the details and resubmit.", listingTitle)
	default:
		title = "Listing Updated"
		body = fmt.Sprintf("The status of your listing '%s' changed to %s", listingTitle, status)
	}

	params := fmt.Sprintf(`{"listingId": %d, "status": "%s"}`, listingID, status)

	data := NotificationData{
		Type:      "listing_status",
		ID:        fmt.Sprintf("%d", listingID),
		ListingID: fmt.Sprintf("%d", listingID),
		Screen:    "MyListings",
		Params:    params,
		Action:    "view_listing",
	}

	return ns.SendNotificationToUser(landlordID, title, body, data)
}
