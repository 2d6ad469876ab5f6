package geo

import "github.com/paulmach/orb"

// TableVersion stamps the canonical region table. The table consolidates
// several hand-maintained variants that had drifted apart; bump this when
// boxes are corrected so runs can record which table labeled them.
const TableVersion = "2025.1"

// box builds an orb.Bound from latitude/longitude ranges. orb points are
// (lng, lat) ordered.
func box(minLat, maxLat, minLng, maxLng float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{minLng, minLat},
		Max: orb.Point{maxLng, maxLat},
	}
}

// Regions returns the canonical city table in priority order. Boxes are
// deliberately broad and overlap in places; declaration order is the
// tie-break, so more specific or more populous entries come first within
// each state group.
func Regions() []Region {
	return []Region{
		// Florida
		{Bound: box(24.0, 26.8, -82.0, -79.0), City: "Miami", State: "FL", Metro: "Miami-Fort Lauderdale"},
		{Bound: box(26.8, 28.8, -83.5, -81.5), City: "Tampa", State: "FL", Metro: "Tampa Bay"},
		{Bound: box(28.8, 30.8, -82.5, -80.5), City: "Jacksonville", State: "FL"},
		{Bound: box(27.5, 29.5, -82.0, -80.0), City: "Orlando", State: "FL"},
		{Bound: box(26.0, 28.0, -82.0, -80.0), City: "Fort Myers", State: "FL"},
		{Bound: box(25.0, 27.0, -81.0, -79.0), City: "Fort Lauderdale", State: "FL"},
		{Bound: box(24.5, 26.5, -81.5, -79.5), City: "Key West", State: "FL"},

		// California
		{Bound: box(33.0, 35.0, -119.0, -117.0), City: "Los Angeles", State: "CA", Metro: "Greater Los Angeles"},
		{Bound: box(37.0, 39.0, -123.0, -121.5), City: "San Francisco", State: "CA", Metro: "Bay Area"},
		{Bound: box(32.0, 34.0, -118.0, -116.5), City: "San Diego", State: "CA"},
		{Bound: box(37.5, 39.5, -122.0, -121.0), City: "Oakland", State: "CA", Metro: "Bay Area"},
		{Bound: box(36.5, 38.5, -122.0, -120.5), City: "Sacramento", State: "CA"},
		{Bound: box(37.0, 39.0, -122.5, -121.0), City: "San Jose", State: "CA", Metro: "Bay Area"},
		{Bound: box(34.0, 36.0, -120.0, -118.0), City: "Bakersfield", State: "CA"},
		{Bound: box(33.0, 35.0, -118.0, -116.5), City: "Long Beach", State: "CA"},
		{Bound: box(33.5, 35.5, -118.5, -117.0), City: "Anaheim", State: "CA"},
		{Bound: box(33.0, 35.0, -117.5, -116.5), City: "Riverside", State: "CA"},
		{Bound: box(33.5, 35.5, -118.0, -117.0), City: "Santa Ana", State: "CA"},

		// Texas
		{Bound: box(29.0, 31.0, -96.0, -94.5), City: "Houston", State: "TX"},
		{Bound: box(32.0, 34.0, -97.5, -96.0), City: "Dallas", State: "TX", Metro: "Dallas-Fort Worth"},
		{Bound: box(32.0, 34.0, -98.0, -96.5), City: "Fort Worth", State: "TX", Metro: "Dallas-Fort Worth"},
		{Bound: box(28.5, 30.5, -99.0, -98.0), City: "San Antonio", State: "TX"},
		{Bound: box(29.5, 31.5, -98.5, -97.0), City: "Austin", State: "TX"},
		{Bound: box(31.0, 32.5, -107.0, -106.0), City: "El Paso", State: "TX"},
		{Bound: box(32.0, 33.5, -98.5, -97.0), City: "Arlington", State: "TX"},
		{Bound: box(27.0, 29.0, -98.0, -97.0), City: "Corpus Christi", State: "TX"},
		{Bound: box(29.0, 31.0, -96.5, -95.0), City: "Galveston", State: "TX"},
		{Bound: box(30.0, 32.0, -96.0, -94.0), City: "Beaumont", State: "TX"},

		// New York
		{Bound: box(40.0, 42.0, -75.0, -73.0), City: "New York", State: "NY", Metro: "New York Metro"},
		{Bound: box(40.0, 42.0, -74.5, -73.0), City: "Brooklyn", State: "NY", Metro: "New York Metro"},
		{Bound: box(40.0, 42.0, -74.5, -73.0), City: "Queens", State: "NY", Metro: "New York Metro"},
		{Bound: box(40.0, 42.0, -74.5, -73.0), City: "Bronx", State: "NY", Metro: "New York Metro"},
		{Bound: box(40.0, 42.0, -74.5, -73.0), City: "Staten Island", State: "NY", Metro: "New York Metro"},
		{Bound: box(42.0, 44.0, -79.0, -77.0), City: "Buffalo", State: "NY"},
		{Bound: box(42.0, 44.0, -78.0, -76.0), City: "Rochester", State: "NY"},
		{Bound: box(42.0, 44.0, -77.0, -75.0), City: "Syracuse", State: "NY"},

		// Illinois
		{Bound: box(41.0, 42.5, -88.5, -87.0), City: "Chicago", State: "IL", Metro: "Chicagoland"},
		{Bound: box(39.0, 41.0, -90.0, -88.0), City: "Springfield", State: "IL"},

		// Arizona
		{Bound: box(32.5, 34.5, -113.0, -111.0), City: "Phoenix", State: "AZ", Metro: "Valley of the Sun"},
		{Bound: box(31.5, 33.0, -111.5, -110.5), City: "Tucson", State: "AZ"},
		{Bound: box(32.5, 34.0, -112.0, -111.0), City: "Mesa", State: "AZ"},
		{Bound: box(33.0, 34.5, -112.5, -111.5), City: "Scottsdale", State: "AZ"},

		// Pennsylvania
		{Bound: box(39.5, 40.5, -76.0, -74.5), City: "Philadelphia", State: "PA"},
		{Bound: box(40.0, 41.0, -80.5, -79.0), City: "Pittsburgh", State: "PA"},

		// Ohio
		{Bound: box(39.0, 41.0, -84.0, -82.0), City: "Columbus", State: "OH"},
		{Bound: box(40.5, 42.0, -82.5, -81.0), City: "Cleveland", State: "OH"},
		{Bound: box(39.0, 41.0, -85.0, -83.0), City: "Cincinnati", State: "OH"},

		// North Carolina
		{Bound: box(34.5, 36.0, -81.5, -80.0), City: "Charlotte", State: "NC"},
		{Bound: box(35.0, 36.5, -79.5, -78.0), City: "Raleigh", State: "NC", Metro: "Research Triangle"},
		{Bound: box(35.0, 36.5, -79.5, -78.0), City: "Durham", State: "NC", Metro: "Research Triangle"},
		{Bound: box(35.0, 36.0, -80.5, -79.5), City: "Winston-Salem", State: "NC"},

		// Georgia
		{Bound: box(33.0, 34.5, -85.0, -83.5), City: "Atlanta", State: "GA"},
		{Bound: box(31.5, 33.0, -81.5, -80.5), City: "Savannah", State: "GA"},

		// Washington
		{Bound: box(47.0, 48.5, -123.0, -121.5), City: "Seattle", State: "WA", Metro: "Puget Sound"},
		{Bound: box(46.5, 48.0, -118.5, -117.0), City: "Spokane", State: "WA"},

		// Colorado
		{Bound: box(39.0, 40.5, -105.5, -104.0), City: "Denver", State: "CO", Metro: "Front Range"},
		{Bound: box(38.0, 39.5, -105.0, -104.0), City: "Colorado Springs", State: "CO"},
		{Bound: box(39.5, 40.5, -105.5, -104.5), City: "Aurora", State: "CO"},

		// District of Columbia
		{Bound: box(38.0, 39.5, -77.5, -76.5), City: "Washington", State: "DC"},

		// Massachusetts
		{Bound: box(42.0, 43.0, -71.5, -70.5), City: "Boston", State: "MA", Metro: "Greater Boston"},
		{Bound: box(42.0, 43.0, -71.5, -70.5), City: "Cambridge", State: "MA", Metro: "Greater Boston"},

		// Tennessee
		{Bound: box(35.5, 36.5, -87.5, -86.0), City: "Nashville", State: "TN"},
		{Bound: box(34.5, 35.5, -90.5, -89.5), City: "Memphis", State: "TN"},
		{Bound: box(35.0, 36.0, -85.0, -84.0), City: "Chattanooga", State: "TN"},

		// Michigan
		{Bound: box(41.5, 43.0, -84.0, -82.5), City: "Detroit", State: "MI"},
		{Bound: box(42.0, 43.0, -84.0, -82.5), City: "Grand Rapids", State: "MI"},

		// Oklahoma
		{Bound: box(34.5, 36.0, -98.5, -97.0), City: "Oklahoma City", State: "OK"},
		{Bound: box(35.5, 36.5, -96.5, -95.0), City: "Tulsa", State: "OK"},

		// Oregon
		{Bound: box(45.0, 46.0, -123.0, -122.0), City: "Portland", State: "OR"},
		{Bound: box(44.0, 45.0, -124.0, -122.5), City: "Eugene", State: "OR"},

		// Nevada
		{Bound: box(35.5, 36.5, -115.5, -114.5), City: "Las Vegas", State: "NV"},
		{Bound: box(39.0, 40.0, -120.0, -119.0), City: "Reno", State: "NV"},

		// Kentucky
		{Bound: box(37.5, 39.0, -86.0, -85.0), City: "Louisville", State: "KY"},
		{Bound: box(37.0, 38.5, -85.0, -84.0), City: "Lexington", State: "KY"},

		// Maryland
		{Bound: box(38.5, 39.5, -77.5, -76.0), City: "Baltimore", State: "MD"},

		// Wisconsin
		{Bound: box(42.5, 43.5, -88.5, -87.5), City: "Milwaukee", State: "WI"},
		{Bound: box(43.0, 44.0, -90.0, -89.0), City: "Madison", State: "WI"},

		// New Mexico
		{Bound: box(34.5, 35.5, -107.0, -106.0), City: "Albuquerque", State: "NM"},
		{Bound: box(35.0, 36.0, -106.5, -105.5), City: "Santa Fe", State: "NM"},

		// Missouri
		{Bound: box(38.5, 39.5, -95.0, -93.5), City: "Kansas City", State: "MO"},
		{Bound: box(38.0, 39.0, -91.0, -90.0), City: "St. Louis", State: "MO"},

		// Indiana
		{Bound: box(39.0, 40.5, -87.0, -85.5), City: "Indianapolis", State: "IN"},
		{Bound: box(41.0, 42.0, -87.5, -86.5), City: "Gary", State: "IN"},

		// Louisiana
		{Bound: box(29.5, 30.5, -90.5, -89.5), City: "New Orleans", State: "LA"},
		{Bound: box(30.0, 31.0, -92.0, -91.0), City: "Baton Rouge", State: "LA"},

		// Kansas
		{Bound: box(37.0, 38.5, -98.0, -96.5), City: "Wichita", State: "KS"},
		{Bound: box(38.5, 39.5, -95.5, -94.5), City: "Kansas City", State: "KS"},

		// Nebraska
		{Bound: box(40.5, 41.5, -96.5, -95.5), City: "Omaha", State: "NE"},
		{Bound: box(40.0, 41.0, -97.0, -96.0), City: "Lincoln", State: "NE"},

		// Minnesota
		{Bound: box(44.5, 45.5, -93.5, -92.5), City: "Minneapolis", State: "MN", Metro: "Twin Cities"},
		{Bound: box(44.5, 45.5, -93.5, -92.5), City: "St. Paul", State: "MN", Metro: "Twin Cities"},

		// Virginia
		{Bound: box(36.0, 37.5, -77.0, -75.5), City: "Virginia Beach", State: "VA", Metro: "Hampton Roads"},
		{Bound: box(37.0, 38.0, -78.5, -77.5), City: "Richmond", State: "VA"},

		// Hawaii
		{Bound: box(21.0, 21.5, -158.5, -157.5), City: "Honolulu", State: "HI"},

		// Northeast corridor extras
		{Bound: box(41.0, 42.0, -88.0, -87.0), City: "Aurora", State: "IL"},
		{Bound: box(40.0, 41.0, -75.0, -74.0), City: "Newark", State: "NJ"},
		{Bound: box(40.0, 41.0, -74.5, -73.5), City: "Jersey City", State: "NJ"},
		{Bound: box(39.0, 40.0, -76.5, -75.5), City: "Wilmington", State: "DE"},
		{Bound: box(38.0, 39.0, -77.5, -76.5), City: "Alexandria", State: "VA"},
		{Bound: box(38.0, 39.0, -77.5, -76.5), City: "Arlington", State: "VA"},
	}
}

// StateBoundaries returns the coarse per-state fallback table, scanned in
// order after the city table misses.
func StateBoundaries() []StateBoundary {
	return []StateBoundary{
		{Bound: box(24.0, 31.0, -87.0, -80.0), State: "FL"},
		{Bound: box(40.0, 45.0, -79.0, -71.0), State: "NY"},
		{Bound: box(32.0, 42.0, -124.0, -114.0), State: "CA"},
		{Bound: box(25.0, 37.0, -106.0, -93.0), State: "TX"},
		{Bound: box(36.0, 43.0, -91.0, -87.0), State: "IL"},
		{Bound: box(31.0, 37.0, -115.0, -109.0), State: "AZ"},
		{Bound: box(39.0, 43.0, -80.0, -74.0), State: "PA"},
		{Bound: box(38.0, 42.0, -84.0, -80.0), State: "OH"},
		{Bound: box(33.0, 37.0, -84.0, -75.0), State: "NC"},
		{Bound: box(30.0, 35.0, -85.0, -80.0), State: "GA"},
		{Bound: box(45.0, 49.0, -124.0, -116.0), State: "WA"},
		{Bound: box(37.0, 41.0, -109.0, -102.0), State: "CO"},
		{Bound: box(38.0, 40.0, -79.0, -75.0), State: "DC"},
		{Bound: box(41.0, 43.0, -73.0, -69.0), State: "MA"},
		{Bound: box(35.0, 37.0, -90.0, -81.0), State: "TN"},
		{Bound: box(41.0, 48.0, -90.0, -82.0), State: "MI"},
		{Bound: box(33.0, 37.0, -103.0, -94.0), State: "OK"},
		{Bound: box(42.0, 46.0, -125.0, -116.0), State: "OR"},
		{Bound: box(35.0, 42.0, -120.0, -114.0), State: "NV"},
		{Bound: box(36.0, 39.0, -89.0, -81.0), State: "KY"},
		{Bound: box(38.0, 40.0, -79.0, -75.0), State: "MD"},
		{Bound: box(42.0, 47.0, -93.0, -86.0), State: "WI"},
		{Bound: box(31.0, 37.0, -109.0, -103.0), State: "NM"},
		{Bound: box(36.0, 41.0, -96.0, -89.0), State: "MO"},
		{Bound: box(37.0, 42.0, -88.0, -84.0), State: "IN"},
		{Bound: box(28.0, 33.0, -94.0, -88.0), State: "LA"},
		{Bound: box(37.0, 40.0, -102.0, -94.0), State: "KS"},
		{Bound: box(40.0, 43.0, -104.0, -95.0), State: "NE"},
		{Bound: box(43.0, 49.0, -97.0, -89.0), State: "MN"},
		{Bound: box(36.0, 40.0, -83.0, -75.0), State: "VA"},
		{Bound: box(18.0, 22.0, -162.0, -154.0), State: "HI"},
	}
}
