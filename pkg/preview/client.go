package preview

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// keepaliveMillis is how often an idle page sends an empty "{}" frame. It is
// well below the default bridge read timeout.
const keepaliveMillis = "25000"

// clientJS opens the media bridge, watches the queries the server
// subscribes to and swaps in a fresh page fragment after each report.
const clientJS = `document.addEventListener("DOMContentLoaded", function () {
  var main = document.querySelector("main[data-page]");
  if (!main || !window.WebSocket || !window.matchMedia) return;
  var id = (window.crypto && crypto.randomUUID) ? crypto.randomUUID()
    : String(Date.now()) + Math.random().toString(16).slice(2);
  var scheme = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(scheme + "//" + location.host + "` + MediaPath + `?id=" + encodeURIComponent(id));
  var watched = {};
  var timer = null;

  function refresh() {
    clearTimeout(timer);
    timer = setTimeout(function () {
      var url = "/p/" + encodeURIComponent(main.dataset.page) +
        "?fragment=1&viewport=" + encodeURIComponent(id);
      fetch(url).then(function (r) { return r.ok ? r.text() : null; }).then(function (html) {
        if (!html) return;
        main.outerHTML = html;
        main = document.querySelector("main[data-page]");
      });
    }, 50);
  }

  function report(query, mql) {
    if (ws.readyState !== WebSocket.OPEN) return;
    ws.send(JSON.stringify({ query: query, matches: mql.matches }));
    refresh();
  }

  var keepalive = setInterval(function () {
    if (ws.readyState === WebSocket.OPEN) ws.send("{}");
  }, ` + keepaliveMillis + `);
  ws.onclose = function () { clearInterval(keepalive); };

  ws.onmessage = function (ev) {
    var cmd = JSON.parse(ev.data);
    if (cmd.subscribe && !watched[cmd.subscribe]) {
      var q = cmd.subscribe, mql = window.matchMedia(q);
      var fn = function () { report(q, mql); };
      mql.addEventListener("change", fn);
      watched[q] = { mql: mql, fn: fn };
      report(q, mql);
    }
    if (cmd.unsubscribe && watched[cmd.unsubscribe]) {
      var w = watched[cmd.unsubscribe];
      w.mql.removeEventListener("change", w.fn);
      delete watched[cmd.unsubscribe];
    }
  };
});`

// ClientScript returns the inline script that connects a page to the media
// bridge. Add it to the renderer's Head when previewing.
func ClientScript() g.Node {
	return h.Script(g.Raw(clientJS))
}
