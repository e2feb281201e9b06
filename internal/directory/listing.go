// Package directory extracts facility names and map coordinates from saved pages
// of the public health unit directory.
package directory

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrResumePointNotFound is returned by Resume when no listing carries the requested name.
var ErrResumePointNotFound = errors.New("resume point not found in listings")

var (
	mapsLink    = regexp.MustCompile(`maps\.google\.com.*\?q=`)
	coordsParam = regexp.MustCompile(`q=(-?\d+\.\d+),(-?\d+\.\d+)`)
)

// Listing is one unit found in the directory.
type Listing struct {
	Name     string
	Location models.Coordinates
}

// ParseListings walks an HTML document and returns every map link with parseable
// coordinates, in document order. The unit name comes from the alt text of the image
// inside the link, up to the first "<br"; links without an image keep an empty name.
func ParseListings(r io.Reader) ([]Listing, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directory page: %w", err)
	}

	var listings []Listing
	walk(doc, atom.A, func(node *html.Node) bool {
		href := attr(node, "href")
		if !mapsLink.MatchString(href) {
			return true
		}
		match := coordsParam.FindStringSubmatch(href)
		if match == nil {
			return true
		}

		lat, errLat := strconv.ParseFloat(match[1], 64)
		lon, errLon := strconv.ParseFloat(match[2], 64)
		if errLat != nil || errLon != nil {
			return true
		}

		listings = append(listings, Listing{
			Name:     imageName(node),
			Location: models.Coordinates{Latitude: lat, Longitude: lon},
		})
		return true
	})

	return listings, nil
}

// Resume drops every listing before the first one named from. An empty from keeps all listings.
func Resume(listings []Listing, from string) ([]Listing, error) {
	if from == "" {
		return listings, nil
	}

	for i, listing := range listings {
		if listing.Name == from {
			return listings[i:], nil
		}
	}

	return nil, ErrResumePointNotFound
}

func imageName(link *html.Node) string {
	var name string
	walk(link, atom.Img, func(node *html.Node) bool {
		alt, ok := lookupAttr(node, "alt")
		if !ok {
			return true
		}
		name, _, _ = strings.Cut(strings.TrimSpace(alt), "<br")
		name = strings.TrimSpace(name)
		return false
	})

	return name
}

// walk visits elements of the given kind below root in document order until visit returns false.
func walk(root *html.Node, kind atom.Atom, visit func(*html.Node) bool) bool {
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == kind && !visit(child) {
			return false
		}
		if !walk(child, kind, visit) {
			return false
		}
	}

	return true
}

func attr(node *html.Node, key string) string {
	value, _ := lookupAttr(node, key)
	return value
}

func lookupAttr(node *html.Node, key string) (string, bool) {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}

	return "", false
}
