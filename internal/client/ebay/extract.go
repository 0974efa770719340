package ebay

import (
	"net/url"
	"strings"
)

// EPN (eBay Partner Network) rotation ID for the US marketplace.
const epnRotationID = "711-53200-19255-0"

// MakeAffiliateURL appends EPN tracking parameters to an item URL. An empty
// campaign ID returns the URL untouched. Existing query parameters survive,
// but tracking keys already present are overwritten.
func MakeAffiliateURL(itemURL, campaignID string) string {
	if campaignID == "" {
		return itemURL
	}
	u, err := url.Parse(itemURL)
	if err != nil {
		return itemURL
	}
	q := u.Query()
	q.Set("mkevt", "1")
	q.Set("mkcid", "1")
	q.Set("mkrid", epnRotationID)
	q.Set("campid", campaignID)
	q.Set("toolid", "10001")
	u.RawQuery = q.Encode()
	return u.String()
}

// ExtractUPC finds a UPC or EAN value among an item's localized aspects,
// or "".
func ExtractUPC(aspects []LocalizedAspect) string {
	for _, a := range aspects {
		name := strings.ToUpper(a.Name)
		if strings.Contains(name, "UPC") || strings.Contains(name, "EAN") {
			return a.Value
		}
	}
	return ""
}
