package config

// Hotel is the public information rendered on every page.
type Hotel struct {
	Name      string
	Address   string
	Location  string
	Email     string
	Phone     string
	Facebook  string
	Twitter   string
	Instagram string
}

// LoadHotel reads HOTEL_* variables, defaulting to the Sunrise Hotel.
func LoadHotel() Hotel {
	return Hotel{
		Name:      getenv("HOTEL_NAME", "Sunrise Hotel"),
		Address:   getenv("HOTEL_ADDRESS", "123 Beach Road, Paradise City"),
		Location:  getenv("HOTEL_LOCATION", "Paradise City, Ocean View"),
		Email:     getenv("HOTEL_EMAIL", "contact@sunrisehotel.com"),
		Phone:     getenv("HOTEL_PHONE", "+1234567890"),
		Facebook:  getenv("HOTEL_FACEBOOK", "https://facebook.com/sunrisehotel"),
		Twitter:   getenv("HOTEL_TWITTER", "https://twitter.com/sunrisehotel"),
		Instagram: getenv("HOTEL_INSTAGRAM", "https://instagram.com/sunrisehotel"),
	}
}
