package knowledge

// builtinDocuments is the static knowledge base shipped with the binary:
// the FAQ, ordering and delivery policies, and brand copy the concierge
// assistant answers from. Edits here ship as a redeploy.
func builtinDocuments() []Document {
	return []Document{
		{
			ID:      "faq-ordering",
			Section: "faq",
			Text: "How do I place an order? Add pieces to your cart and check out; " +
				"checkout opens WhatsApp with your order summary pre-filled so our " +
				"concierge can confirm availability, final pricing, and delivery " +
				"timelines with you directly. No payment is taken on the website.",
		},
		{
			ID:      "faq-payment",
			Section: "faq",
			Text: "How do I pay? Payment is by bank transfer after your order is " +
				"confirmed over WhatsApp. Once you have paid, upload your proof of " +
				"payment (a transfer receipt image or PDF, up to 5 MB) on the order " +
				"page and our team will confirm it within one business day.",
		},
		{
			ID:      "faq-order-status",
			Section: "faq",
			Text: "How do I check my order status? Keep the order reference from " +
				"your checkout message. An order is PENDING until we receive your " +
				"proof of payment, then PROOF SUBMITTED while we reconcile it, and " +
				"CONFIRMED once payment is verified. If something does not match we " +
				"mark it REJECTED with a reason and reach out on WhatsApp.",
		},
		{
			ID:      "faq-delivery",
			Section: "faq",
			Text: "Do you deliver? Yes. Lagos deliveries arrive within 2-4 business " +
				"days of confirmation. Nationwide courier delivery takes 3-7 business " +
				"days. International shipping is arranged per order with the " +
				"concierge; duties and customs charges are the recipient's " +
				"responsibility.",
		},
		{
			ID:      "faq-returns",
			Section: "faq",
			Text: "Can I return or exchange? Ready-to-wear pieces can be exchanged " +
				"within 7 days of delivery if unworn with tags attached. Bespoke and " +
				"made-to-order pieces, and event styling services, are final sale.",
		},
		{
			ID:      "faq-sizing",
			Section: "faq",
			Text: "What sizes do you carry? Most pieces run from size 6 to size 16 " +
				"UK, and many are available in multiple colorways. Message the " +
				"concierge for made-to-measure adjustments; a fitting can be " +
				"scheduled at the atelier.",
		},
		{
			ID:      "services-events",
			Section: "services",
			Text: "Event planning and styling: full event concepts, floral design, " +
				"venue styling, and day-of coordination for weddings, private " +
				"dinners, and corporate occasions. Consultations are booked through " +
				"the concierge; share your date, guest count, and venue to receive a " +
				"proposal.",
		},
		{
			ID:      "services-bespoke",
			Section: "services",
			Text: "Bespoke commissions: gowns and occasionwear made to measure at " +
				"the atelier. Allow 4-8 weeks from deposit to final fitting " +
				"depending on construction and embellishment.",
		},
		{
			ID:      "contact",
			Section: "contact",
			Text: "Reach the concierge on WhatsApp for orders, fittings, and event " +
				"enquiries, or email the studio. The atelier receives visitors by " +
				"appointment, Tuesday to Saturday, 10am to 6pm.",
		},
		{
			ID:      "brand-story",
			Section: "brand",
			Text: "The house crafts occasionwear and event experiences defined by " +
				"quiet luxury: hand-finished construction, considered silhouettes, " +
				"and a devotion to craft. Each collection is produced in small runs " +
				"at our Lagos atelier.",
		},
	}
}
