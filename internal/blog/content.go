// Package blog serves the static editorial content shown on the marketplace.
// Posts live in memory; there is no CMS behind this.
package blog

import "strings"

type Post struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Author      string `json:"author"`
	CoverImage  string `json:"cover_image"`
	PublishedAt string `json:"published_at"`
}

var posts = []Post{
	{
		Slug:        "ev-range-anxiety-myths",
		Title:       "Five Range-Anxiety Myths, Debunked",
		Excerpt:     "Modern EVs routinely clear 250 miles on a charge. Here is what the numbers actually say.",
		Content:     "Range anxiety remains the most cited reason shoppers hesitate on an electric car, yet the average American drives under 40 miles a day. We break down real-world range figures across the most-listed models on the marketplace, how cold weather changes them, and why a used EV with 200 miles of range covers almost every commute with room to spare.",
		Category:    "buying-guides",
		Author:      "Maya Linden",
		CoverImage:  "/blog/range-anxiety.jpg",
		PublishedAt: "2024-11-04",
	},
	{
		Slug:        "hybrid-vs-ev-total-cost",
		Title:       "Hybrid or Full EV? The Total-Cost Math",
		Excerpt:     "Purchase price is only the opening bid. We compare five years of fuel, maintenance, and resale.",
		Content:     "A plug-in hybrid undercuts a comparable EV on sticker price, but the gap narrows fast once fuel and maintenance enter the ledger. Using listing data from both categories we model five-year ownership costs for commuters, rideshare drivers, and families with one car.",
		Category:    "buying-guides",
		Author:      "Daniel Okafor",
		CoverImage:  "/blog/hybrid-vs-ev.jpg",
		PublishedAt: "2024-12-12",
	},
	{
		Slug:        "sell-your-ev-faster",
		Title:       "Seven Photos That Sell an EV Faster",
		Excerpt:     "Listings with a charging-port photo sell measurably quicker. Here is the full shot list.",
		Content:     "Buyers of used electric vehicles look for different evidence than petrol shoppers: battery-health screens, charging-port condition, and the original cable set. We walk through the seven photos that consistently shorten time-to-sale, in the order the browse grid shows them.",
		Category:    "selling-tips",
		Author:      "Maya Linden",
		CoverImage:  "/blog/sell-faster.jpg",
		PublishedAt: "2025-01-20",
	},
	{
		Slug:        "escooter-commuter-checklist",
		Title:       "The E-Scooter Commuter Checklist",
		Excerpt:     "Motor wattage, wheel size, and the three questions to ask before buying used.",
		Content:     "A used e-scooter can be a bargain or a brick. Motor power tells you about hills, wheel size about potholes, and the gear system about maintenance. This checklist covers what to inspect in person and which listing attributes to filter on before you ever leave the house.",
		Category:    "micromobility",
		Author:      "Priya Raman",
		CoverImage:  "/blog/escooter-checklist.jpg",
		PublishedAt: "2025-02-08",
	},
	{
		Slug:        "ebike-battery-health",
		Title:       "Reading an E-Bike Battery Before You Buy",
		Excerpt:     "Charge cycles matter more than age. How to check them on the big three drive systems.",
		Content:     "E-bike batteries degrade by cycle count, not calendar. Bosch, Shimano, and Bafang systems all expose cycle data if you know where to look. We show the menu paths, what a healthy number looks like per year of use, and how to price a replacement into your offer.",
		Category:    "micromobility",
		Author:      "Daniel Okafor",
		CoverImage:  "/blog/ebike-battery.jpg",
		PublishedAt: "2025-03-15",
	},
}

// All returns every post, newest first (the array is maintained in
// publication order).
func All() []Post {
	out := make([]Post, len(posts))
	for i := range posts {
		out[i] = posts[len(posts)-1-i]
	}
	return out
}

// BySlug returns the post with the given slug, or nil.
func BySlug(slug string) *Post {
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i]
		}
	}
	return nil
}

// ByCategory returns posts in a category, newest first. An empty or "all"
// category returns everything.
func ByCategory(category string) []Post {
	if category == "" || strings.EqualFold(category, "all") {
		return All()
	}
	out := []Post{}
	for _, p := range All() {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}
