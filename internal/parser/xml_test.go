package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXMLParserTickets(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<tickets>
  <ticket>
    <customer_id>CUST001</customer_id>
    <customer_email>a@example.com</customer_email>
    <customer_name>Ann</customer_name>
    <subject>Cannot login</subject>
    <description>Password reset never arrives</description>
    <category>account_access</category>
    <tags>login, password, </tags>
    <metadata>
      <source>email</source>
      <device_type>mobile</device_type>
    </metadata>
  </ticket>
  <ticket>
    <customer_id>CUST002</customer_id>
    <priority></priority>
    <assigned_to></assigned_to>
    <tags><tag>billing</tag><tag> refund </tag></tags>
  </ticket>
  <ticket>
    <customer_id>12345</customer_id>
  </ticket>
</tickets>`

	records, err := XMLParser{}.Parse([]byte(content))
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, i+1, rec.Row)
	}

	first := records[0].Data
	assert.Equal(t, "Cannot login", first["subject"])
	assert.Equal(t, "account_access", first["category"])
	assert.Equal(t, []any{"login", "password"}, first["tags"])
	assert.Equal(t, map[string]any{"source": "email", "device_type": "mobile"}, first["metadata"])
	assert.Nil(t, first["assigned_to"])

	second := records[1].Data
	assert.NotContains(t, second, "priority")
	assert.Nil(t, second["assigned_to"])
	assert.Equal(t, []any{"billing", "refund"}, second["tags"])
	assert.Equal(t, map[string]any{"source": "api"}, second["metadata"])

	third := records[2].Data
	assert.Equal(t, "12345", third["customer_id"])
	assert.Equal(t, []any{}, third["tags"])
}

func TestXMLParserSingleTicket(t *testing.T) {
	records, err := XMLParser{}.Parse([]byte(`<tickets><ticket><subject>One</subject></ticket></tickets>`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Row)
	assert.Equal(t, "One", records[0].Data["subject"])
}

func TestXMLParserAllowsTrailingWhitespaceAndComments(t *testing.T) {
	content := "<?xml version=\"1.0\"?>\n<tickets><ticket><subject>a</subject></ticket></tickets>\n<!-- exported -->\n"
	records, err := XMLParser{}.Parse([]byte(content))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestXMLParserStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "wrong root", content: `<items><ticket/></items>`, want: "root <tickets>"},
		{name: "no tickets", content: `<tickets><note>hi</note></tickets>`, want: "no <ticket> elements"},
		{name: "unclosed", content: `<tickets><ticket>`, want: "XML parsing failed"},
		{name: "empty", content: ``, want: "XML parsing failed"},
		{name: "unterminated trailer", content: `<tickets><ticket><subject>a</subject></ticket></tickets><garbage`, want: "XML parsing failed"},
		{name: "stray end tag", content: `<tickets><ticket><subject>a</subject></ticket></tickets></oops>`, want: "XML parsing failed"},
		{name: "second root", content: `<tickets><ticket/></tickets><tickets><ticket/></tickets>`, want: "after the root element"},
		{name: "trailing text", content: `<tickets><ticket/></tickets>junk`, want: "after the root element"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := XMLParser{}.Parse([]byte(tt.content))
			require.Error(t, err)
			var se *StructuralError
			require.ErrorAs(t, err, &se)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
