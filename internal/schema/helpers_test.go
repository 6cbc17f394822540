package schema

import "fmt"

// recordingContext captures diagnostics by severity
type recordingContext struct {
	debug    []string
	info     []string
	warnings []string
	critical []string
}

func (c *recordingContext) Debug(format string, args ...interface{}) {
	c.debug = append(c.debug, fmt.Sprintf(format, args...))
}

func (c *recordingContext) Info(format string, args ...interface{}) {
	c.info = append(c.info, fmt.Sprintf(format, args...))
}

func (c *recordingContext) Warning(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *recordingContext) Critical(format string, args ...interface{}) {
	c.critical = append(c.critical, fmt.Sprintf(format, args...))
}

const pointSchema = `{
  "servicename": "Geometry",
  "types": {
    "Point": {
      "doc_lines": ["A point on the plane."],
      "members": {
        "x": "number",
        "y": {"type": "number", "doc_lines": ["Vertical offset."]}
      }
    }
  },
  "methods": {
    "get_origin": {
      "ret_info": {"type": "Point", "doc_lines": ["The origin."]},
      "doc_lines": ["Returns the origin."]
    }
  }
}`
