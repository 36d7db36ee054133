// Package unhtml removes markup from HTML and XML documents and renders the
// remaining text as UTF-8 plain text.
//
// Element rendering (paragraph, line and space breaks, content suppression)
// is driven by Rules built from ordered configuration fragments. Documents
// are parsed by interchangeable Parser backends which report elements and
// text to a Visitor; the Renderer is the Visitor that writes the output.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, etree/, trafilatura/).
package unhtml
