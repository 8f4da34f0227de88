package models

// All lists every table, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&BloodRequest{},
		&BloodCamp{},
		&Booking{},
		&Donation{},
		&ProcessedDonationEvent{},
		&MonetaryDonation{},
		&Story{},
		&BlogPost{},
		&AdminAction{},
	}
}
