// Package layout holds the data shared by every page
package layout

import "github.com/mcoot/cricketreg/internal/model"

// Flash message types
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string
	Message string
}

// PageData is embedded in every page's data
type PageData struct {
	Title string
	Flash *FlashMessage
	// Admin is set on pages behind the admin gate
	Admin *model.AdminIdentity
}
