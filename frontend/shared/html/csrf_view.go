package html

// CSRFScript copies the X-CSRF-Token cookie into a hidden _csrf field of every
// POST form and into the X-CSRF-Token header of same-origin fetch calls that
// change state.
func CSRFScript() string {
	return `<script>
(function () {
  var cookieName = "X-CSRF-Token";

  function token() {
    var parts = document.cookie ? document.cookie.split(";") : [];
    for (var i = 0; i < parts.length; i++) {
      var c = parts[i].trim();
      if (c.indexOf(cookieName + "=") === 0) return decodeURIComponent(c.substring(cookieName.length + 1));
    }
    return "";
  }

  function sameOrigin(input) {
    var href = typeof input === "string" ? input : (input && input.url) || "";
    return new URL(href, window.location.href).origin === window.location.origin;
  }

  function tagForms() {
    var t = token();
    if (!t) return;
    document.querySelectorAll("form[method='post' i]").forEach(function (form) {
      if (form.querySelector("input[name='_csrf']")) return;
      var input = document.createElement("input");
      input.type = "hidden";
      input.name = "_csrf";
      input.value = t;
      form.appendChild(input);
    });
  }

  if (window.fetch) {
    var plain = window.fetch.bind(window);
    window.fetch = function (input, init) {
      init = init || {};
      var method = (init.method || "GET").toUpperCase();
      if (method !== "GET" && method !== "HEAD" && sameOrigin(input)) {
        var headers = new Headers(init.headers || {});
        if (!headers.has(cookieName)) headers.set(cookieName, token());
        init.headers = headers;
      }
      return plain(input, init);
    };
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", tagForms);
  } else {
    tagForms();
  }
})();
</script>`
}
