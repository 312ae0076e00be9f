// Package report defines the compliance report produced by an analysis and
// the renderers that export it.
//
// A report has two groups. Format is a fixed record of the container and
// typography checks. Content lists the detected sections in discovery order,
// each with its distinct page count and limit status. Serialized, both groups
// are JSON objects whose keys keep that order:
//
//	{
//	  "format": {"file_type": "pass", "font_size": "pass", "font_family": "fail", "margin": "pass"},
//	  "content": {"summary_pages": 3, "summary": "fail", "skills_pages": 1, "skills": "pass"}
//	}
//
// When the file is not a readable PDF the format group holds only
// "file_type": "fail" and the content group is empty.
package report
