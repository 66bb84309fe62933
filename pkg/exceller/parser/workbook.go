package parser

import (
	"archive/zip"
	"encoding/xml"
	"path"
	"strings"
)

const workbookDir = "xl"

type xlsxWorkbookSheets struct {
	Sheets []struct {
		Name  string     `xml:"name,attr"`
		Attrs []xml.Attr `xml:",any,attr"`
	} `xml:"sheets>sheet"`
}

type xlsxRelationships struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// sheetNames maps worksheet part paths to their display names. Missing or
// unreadable workbook parts yield an empty map; names are informational only.
func sheetNames(r *zip.Reader) map[string]string {
	names := make(map[string]string)

	var workbook xlsxWorkbookSheets
	if data, err := readZipFile(r, workbookDir+"/workbook.xml"); err != nil || xml.Unmarshal(data, &workbook) != nil {
		return names
	}
	var rels xlsxRelationships
	if data, err := readZipFile(r, workbookDir+"/_rels/workbook.xml.rels"); err != nil || xml.Unmarshal(data, &rels) != nil {
		return names
	}

	targets := make(map[string]string, len(rels.Relationships))
	for _, rel := range rels.Relationships {
		if strings.HasSuffix(rel.Type, "/worksheet") {
			targets[rel.ID] = partPath(rel.Target)
		}
	}
	for _, sheet := range workbook.Sheets {
		for _, attr := range sheet.Attrs {
			// r:id, in whichever relationships namespace the package uses
			if attr.Name.Local != "id" || attr.Name.Space == "" {
				continue
			}
			if part, ok := targets[attr.Value]; ok && sheet.Name != "" {
				names[part] = sheet.Name
			}
		}
	}
	return names
}

// partPath resolves a workbook relationship target to an archive path.
func partPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(workbookDir, target)
}
