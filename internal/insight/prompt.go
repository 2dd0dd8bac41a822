package insight

import (
	"fmt"
	"strings"

	"ms-busbooking/internal/analytics"
)

const noTopRoute = "n/a"

// BuildPrompt renders the analyst prompt from the dashboard numbers.
func BuildPrompt(d analytics.Dashboard) string {
	topRoute := d.TopRoute
	if topRoute == "" {
		topRoute = noTopRoute
	}

	var b strings.Builder
	b.WriteString("Act as a Senior Business Analyst for a Bus Transport Company.\n")
	b.WriteString("Here is our current dashboard data:\n\n")
	fmt.Fprintf(&b, "- Total Revenue: ₹%d\n", d.TotalRevenue)
	fmt.Fprintf(&b, "- Total Bookings: %d\n", d.TotalBookings)
	fmt.Fprintf(&b, "- Cancelled Tickets: %d\n", d.Cancelled)
	fmt.Fprintf(&b, "- Active Buses: %d\n", d.ActiveBuses)
	fmt.Fprintf(&b, "- Top Performing Route: %s\n\n", topRoute)
	b.WriteString("Based on this data, provide a professional executive summary with exactly 3 sections:\n")
	b.WriteString("1. **Financial Assessment:** Analyze the revenue health.\n")
	b.WriteString("2. **Operational Flag:** Point out any concern regarding cancellations or bus utilization.\n")
	b.WriteString("3. **Strategic Action:** Suggest one specific marketing or operational move to improve profit.\n\n")
	b.WriteString("Keep the tone professional, concise, and insightful. Do not use markdown headers (#), just bolding (**).")
	return b.String()
}
