package model

import "fmt"

// ============================================================================
// EMAIL GENERATION METHODS
// ============================================================================

// GenerateBookingConfirmationEmail creates simple email content for booking confirmation
func (nr *NotificationRequest) GenerateBookingConfirmationEmail() *EmailTemplate {
	subject := "Booking Confirmed - " + nr.BookingData.RoomName

	body := "Dear " + nr.BookingData.GuestName + ",\n\n" +
		"Your reservation has been confirmed!\n\n" +
		"Room: " + nr.BookingData.RoomName + "\n" +
		"Check-in: " + nr.BookingData.CheckInDate + "\n" +
		"Check-out: " + nr.BookingData.CheckOutDate + "\n" +
		"Amount: $" + fmt.Sprintf("%.2f", nr.BookingData.TotalAmount) + "\n" +
		"Confirmation Number: " + nr.BookingData.ConfirmationNumber + "\n\n" +
		"We look forward to your stay!\n\n" +
		"Hotel Booking Team"

	return &EmailTemplate{
		To:      nr.RecipientEmail,
		Subject: subject,
		Body:    body,
	}
}

// GenerateBookingCancelledEmail creates simple email content for booking cancellation
func (nr *NotificationRequest) GenerateBookingCancelledEmail() *EmailTemplate {
	subject := "Booking Cancelled - " + nr.BookingData.RoomName

	body := "Dear " + nr.BookingData.GuestName + ",\n\n" +
		"Your reservation has been cancelled.\n\n" +
		"Room: " + nr.BookingData.RoomName + "\n" +
		"Check-in: " + nr.BookingData.CheckInDate + "\n" +
		"Check-out: " + nr.BookingData.CheckOutDate + "\n" +
		"Confirmation Number: " + nr.BookingData.ConfirmationNumber + "\n\n" +
		"Any charges will be refunded within 3-5 business days.\n\n" +
		"Hotel Booking Team"

	return &EmailTemplate{
		To:      nr.RecipientEmail,
		Subject: subject,
		Body:    body,
	}
}
